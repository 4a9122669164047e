package routes

import (
	"net/http"
	"time"

	"github.com/andrisetya/go-catalog/app/configs"
	"github.com/andrisetya/go-catalog/app/handlers"
	"github.com/andrisetya/go-catalog/app/middlewares"
	"github.com/andrisetya/go-catalog/app/repositories"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/andrisetya/go-catalog/app/utils/cache"
	"github.com/andrisetya/go-catalog/app/utils/renderer"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, env configs.ENV) *mux.Router {
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	featureRepo := repositories.NewFeatureRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	userRepo := repositories.NewUserRepository(db)

	store := cache.New(env.RedisAddr, env.RedisPassword)
	catalog := services.NewCatalogService(
		categoryRepo, productRepo, featureRepo, ratingRepo,
		store, time.Duration(env.CacheTTLMinutes)*time.Minute,
	)
	ratings := services.NewRatingService(ratingRepo)

	rnd := renderer.New()
	validate := validator.New()
	auth := middlewares.NewAuthMiddleware(env.JWTSecret, userRepo)

	categoryHandler := handlers.NewCategoryHandler(catalog, validate, rnd, env.PageSize)
	productHandler := handlers.NewProductHandler(catalog, validate, rnd)
	featureHandler := handlers.NewFeatureHandler(catalog, validate, rnd, env.PageSize)
	ratingHandler := handlers.NewRatingHandler(ratings, rnd)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.Handle("/category/", auth.Optional(http.HandlerFunc(categoryHandler.List))).Methods("GET")
	api.Handle("/category/", auth.Staff(http.HandlerFunc(categoryHandler.Create))).Methods("POST")
	api.Handle("/category/{id:[0-9]+}/", auth.Optional(http.HandlerFunc(categoryHandler.Products))).Methods("GET")

	api.Handle("/product/{id:[0-9]+}/", auth.Optional(http.HandlerFunc(productHandler.Detail))).Methods("GET")
	api.Handle("/product/", auth.Staff(http.HandlerFunc(productHandler.Create))).Methods("POST")

	api.Handle("/feature/category/{id:[0-9]+}/", auth.Optional(http.HandlerFunc(featureHandler.ByCategory))).Methods("GET")
	api.Handle("/feature/", auth.Staff(http.HandlerFunc(featureHandler.Create))).Methods("POST")

	api.Handle("/rating/{productId:[0-9]+}/like/", auth.Required(http.HandlerFunc(ratingHandler.Like))).Methods("POST", "DELETE")
	api.Handle("/rating/{productId:[0-9]+}/dislike/", auth.Required(http.HandlerFunc(ratingHandler.Dislike))).Methods("POST", "DELETE")

	return router

}
