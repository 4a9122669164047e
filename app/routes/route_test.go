package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrisetya/go-catalog/app/configs"
	"github.com/andrisetya/go-catalog/app/models"
	"github.com/andrisetya/go-catalog/app/models/migrations"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func testEnv() configs.ENV {
	return configs.ENV{
		JWTSecret:       testSecret,
		CacheTTLMinutes: 15,
		PageSize:        10,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func perform(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func createUser(t *testing.T, db *gorm.DB, username string, isStaff bool) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x", IsStaff: isStaff}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// catalogFixture seeds "Test Category" holding "title test" (price 500)
// tagged with the feature Test key / Test value.
func catalogFixture(t *testing.T, db *gorm.DB) (*models.Category, *models.Product, *models.Feature) {
	t.Helper()
	category := models.Category{Title: "Test Category"}
	require.NoError(t, db.Create(&category).Error)

	feature := models.Feature{Key: "Test key", Value: "Test value"}
	require.NoError(t, db.Create(&feature).Error)

	product := models.Product{
		Title:       "title test",
		Price:       500,
		Description: "test description test",
		CategoryID:  category.ID,
		Features:    []models.Feature{feature},
	}
	require.NoError(t, db.Create(&product).Error)
	return &category, &product, &feature
}

func TestGetListOfCategories(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"count": 1,
		"next": null,
		"previous": null,
		"results": [{"id": 1, "title": "Test Category"}]
	}`, resp.Body.String())
}

func TestGetListOfProductsByCategory(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/1/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"count": 1,
		"next": null,
		"previous": null,
		"results": [{
			"id": 1,
			"title": "title test",
			"price": 500,
			"category": "Test Category",
			"category_id": 1,
			"features": [{"id": 1, "key": "Test key", "value": "Test value"}],
			"media": []
		}]
	}`, resp.Body.String())
}

func TestGetListOfProductsByCategoryNotFound(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/99/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, resp.Body.String())
}

func TestEmptyCategoryIsNotFound(t *testing.T) {
	db := newTestDB(t)
	category := models.Category{Title: "Hollow"}
	require.NoError(t, db.Create(&category).Error)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/1/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, resp.Body.String())
}

func TestGetProductsFilteredByFeature(t *testing.T) {
	db := newTestDB(t)
	category, _, _ := catalogFixture(t, db)

	second := models.Feature{Key: "Test key 2", Value: "Test value 2"}
	require.NoError(t, db.Create(&second).Error)
	other := models.Product{
		Title:       "title test2",
		Price:       400,
		Description: "test description test",
		CategoryID:  category.ID,
		Features:    []models.Feature{second},
	}
	require.NoError(t, db.Create(&other).Error)

	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/1/?filter=2", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"count": 1,
		"next": null,
		"previous": null,
		"results": [{
			"id": 2,
			"title": "title test2",
			"price": 400,
			"category": "Test Category",
			"category_id": 1,
			"features": [{"id": 2, "key": "Test key 2", "value": "Test value 2"}],
			"media": []
		}]
	}`, resp.Body.String())
}

func TestGetProductsTwoKeysSingleMatch(t *testing.T) {
	db := newTestDB(t)
	category, product, _ := catalogFixture(t, db)

	second := models.Feature{Key: "Test key 2", Value: "Test value 2"}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Model(product).Association("Features").Append(&second))

	// a second product matching only one of the two keys
	partial := models.Product{
		Title:       "partial",
		Price:       300,
		Description: "x",
		CategoryID:  category.ID,
		Features:    []models.Feature{{ID: second.ID}},
	}
	require.NoError(t, db.Create(&partial).Error)

	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/1/?filter=1&filter=2", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Count   int64 `json:"count"`
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, int64(1), envelope.Count)
	require.Len(t, envelope.Results, 1)
	assert.Equal(t, "title test", envelope.Results[0].Title)
}

func TestGetProductsSorted(t *testing.T) {
	db := newTestDB(t)
	category, _, _ := catalogFixture(t, db)
	cheaper := models.Product{Title: "another", Price: 100, Description: "x", CategoryID: category.ID}
	require.NoError(t, db.Create(&cheaper).Error)

	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/category/1/?sort_by=price&sort_dict=desc", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Results []struct {
			Price int `json:"price"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Results, 2)
	assert.Equal(t, 500, envelope.Results[0].Price)
	assert.Equal(t, 100, envelope.Results[1].Price)
}

func TestGetProductAnonymous(t *testing.T) {
	db := newTestDB(t)
	_, product, _ := catalogFixture(t, db)
	require.NoError(t, db.Create(&models.ProductImage{Title: "test", Path: "test_image1.png", ProductID: product.ID}).Error)

	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/product/1/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"title": "title test",
		"price": 500,
		"category": "Test Category",
		"category_id": 1,
		"features": [{"id": 1, "key": "Test key", "value": "Test value"}],
		"media": ["/media/test_image1.png"],
		"text": null,
		"description": "test description test",
		"rating": {"like_count": 0, "dislike_count": 0, "current_user_rating": null}
	}`, resp.Body.String())
}

func TestGetProductWithLikeFromUser(t *testing.T) {
	db := newTestDB(t)
	_, product, _ := catalogFixture(t, db)
	user := createUser(t, db, "test_user", false)
	require.NoError(t, db.Create(&models.Rating{UserID: user.ID, ProductID: product.ID, Grade: true}).Error)

	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/product/1/", signToken(t, user.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Rating struct {
			LikeCount         int64   `json:"like_count"`
			DislikeCount      int64   `json:"dislike_count"`
			CurrentUserRating *string `json:"current_user_rating"`
		} `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Rating.LikeCount)
	assert.Equal(t, int64(0), body.Rating.DislikeCount)
	require.NotNil(t, body.Rating.CurrentUserRating)
	assert.Equal(t, "like", *body.Rating.CurrentUserRating)
}

func TestGetProductNotFound(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/product/42/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, resp.Body.String())
}

func TestGetUniqueFeaturesByCategory(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/feature/category/1/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"count": 1,
		"next": null,
		"previous": null,
		"results": [{"key": "Test key", "options": [{"value": "Test value", "id": 1}]}]
	}`, resp.Body.String())
}

func TestGetUniqueFeaturesByCategoryNotFound(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodGet, "/api/v1/feature/category/2/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, resp.Body.String())
}

func TestRatingRequiresAuthentication(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodPost, "/api/v1/rating/1/like/", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"detail": "Authentication credentials were not provided."}`, resp.Body.String())
}

func TestRatingLikeToggleAndSwap(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	user := createUser(t, db, "test_user", false)
	token := signToken(t, user.ID)
	router := NewRouter(db, testEnv())

	// NONE -> LIKE
	resp := perform(router, http.MethodPost, "/api/v1/rating/1/like/", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"like_count": 1, "dislike_count": 0, "current_user_rating": "like"}`, resp.Body.String())

	// LIKE -> DISLIKE (swap)
	resp = perform(router, http.MethodPost, "/api/v1/rating/1/dislike/", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"like_count": 0, "dislike_count": 1, "current_user_rating": "dislike"}`, resp.Body.String())

	// DISLIKE -> NONE (toggle off, via the DELETE form)
	resp = perform(router, http.MethodDelete, "/api/v1/rating/1/dislike/", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"like_count": 0, "dislike_count": 0, "current_user_rating": null}`, resp.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRatingUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	user := createUser(t, db, "test_user", false)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodPost, "/api/v1/rating/55/like/", signToken(t, user.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, resp.Body.String())
}

func TestPaginationLinks(t *testing.T) {
	db := newTestDB(t)
	category := models.Category{Title: "Big"}
	require.NoError(t, db.Create(&category).Error)
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&models.Product{Title: title, Price: 100, Description: "x", CategoryID: category.ID}).Error)
	}

	env := testEnv()
	env.PageSize = 2
	router := NewRouter(db, env)

	resp := perform(router, http.MethodGet, "/api/v1/category/1/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var first struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &first))
	assert.Equal(t, int64(3), first.Count)
	require.NotNil(t, first.Next)
	assert.Equal(t, "/api/v1/category/1/?page=2", *first.Next)
	assert.Nil(t, first.Previous)

	resp = perform(router, http.MethodGet, *first.Next, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var second struct {
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "/api/v1/category/1/?page=1", *second.Previous)

	resp = perform(router, http.MethodGet, "/api/v1/category/1/?page=9", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"detail": "Invalid page."}`, resp.Body.String())
}

func TestStaffCreateCategory(t *testing.T) {
	db := newTestDB(t)
	staff := createUser(t, db, "admin", true)
	plain := createUser(t, db, "user", false)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodPost, "/api/v1/category/", signToken(t, staff.ID), map[string]string{"title": "Phones"})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.JSONEq(t, `{"id": 1, "title": "Phones"}`, resp.Body.String())

	resp = perform(router, http.MethodPost, "/api/v1/category/", signToken(t, plain.ID), map[string]string{"title": "Nope"})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = perform(router, http.MethodPost, "/api/v1/category/", signToken(t, staff.ID), map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStaffCreateProductAndFeature(t *testing.T) {
	db := newTestDB(t)
	staff := createUser(t, db, "admin", true)
	category := models.Category{Title: "Phones"}
	require.NoError(t, db.Create(&category).Error)
	token := signToken(t, staff.ID)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodPost, "/api/v1/feature/", token, map[string]string{"key": "color", "value": "red"})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.JSONEq(t, `{"id": 1, "key": "color", "value": "red"}`, resp.Body.String())

	resp = perform(router, http.MethodPost, "/api/v1/product/", token, map[string]any{
		"title":       "handset",
		"price":       19900,
		"description": "a phone",
		"category_id": category.ID,
		"feature_ids": []uint{1},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var detail struct {
		ID       uint `json:"id"`
		Features []struct {
			Value string `json:"value"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.NotZero(t, detail.ID)
	require.Len(t, detail.Features, 1)
	assert.Equal(t, "red", detail.Features[0].Value)
}

func TestInvalidTokenOnMutation(t *testing.T) {
	db := newTestDB(t)
	catalogFixture(t, db)
	router := NewRouter(db, testEnv())

	resp := perform(router, http.MethodPost, "/api/v1/rating/1/like/", "definitely-not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"detail": "Invalid token."}`, resp.Body.String())
}
