package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/internal/api/handlers"
	"Recipe-Book/internal/api/routes"
	"Recipe-Book/internal/middleware"
	"Recipe-Book/internal/utils"
	"Recipe-Book/internal/utils/cache"
	applog "Recipe-Book/internal/utils/logger"
	"Recipe-Book/internal/utils/mailing"
	"Recipe-Book/internal/utils/metrics"
	"Recipe-Book/internal/utils/storage"
	"Recipe-Book/pkg/ai"
	"Recipe-Book/pkg/image"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/jwt"
	"Recipe-Book/pkg/kroger"
	"Recipe-Book/pkg/mealplan"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/shopping"
	"Recipe-Book/pkg/tag"
	"Recipe-Book/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("ENV") != "production",
		BodyLimit:         12 << 20,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))
	app.Use(metrics.Middleware())

	// utils
	ctx := context.Background()

	var s3 storage.AwsS3
	if client, err := storage.NewAwsS3(ctx, storage.OptionsFromConfig()); err == nil {
		s3 = client
	} else {
		applog.L().Warn("object storage disabled", zap.Error(err))
	}

	searchCache := cache.NewNoopCache()
	if redisClient, err := cache.NewRedisClient(); err == nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			applog.L().Warn("redis unreachable, search cache disabled", zap.Error(err))
		} else {
			searchCache = cache.NewRedisCache(redisClient)
			app.Hooks().OnShutdown(redisClient.Close)
		}
	}

	var caller ai.FunctionCaller
	var extractor recipe.DraftExtractor
	if apiKey := utils.GetConfig("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, apiKey, utils.GetConfig("GEMINI_MODEL"))
		if err != nil {
			return nil, err
		}
		perMinute, _ := strconv.Atoi(utils.GetConfig("GEMINI_RATE_PER_MINUTE"))
		limited := ai.NewRateLimitedCaller(gemini, perMinute)
		caller = limited
		extractor = ai.NewExtractor(limited)
		app.Hooks().OnShutdown(limited.Close)
	} else {
		applog.L().Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	krogerClient, err := kroger.NewClient(kroger.ConfigFromEnv())
	if errors.Is(err, domain.ErrKrogerNotConfigured) {
		applog.L().Warn("kroger integration disabled")
	} else if err != nil {
		return nil, err
	}

	mailer := mailing.NewSMTPSender(mailing.LoadMailConfig())

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)
	mealPlanRepository := mealplan.NewMealPlanRepository(db)
	tagRepository := tag.NewTagRepository(db)
	imageRepository := image.NewImageRepository(db)
	krogerRepository := kroger.NewKrogerRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	userService := user.NewUserService(userRepository, jwtService)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		ingredientService,
		recipe.NewImporter(nil, extractor),
		s3,
	)
	shoppingService := shopping.NewShoppingService(shoppingRepository, ingredientService, recipeService, userService, mailer)
	mealPlanService := mealplan.NewMealPlanService(mealPlanRepository, recipeService, shoppingService)
	tagService := tag.NewTagService(tagRepository)
	imageService := image.NewImageService(imageRepository, recipeService, s3)
	krogerService := kroger.NewKrogerService(
		krogerClient,
		krogerRepository,
		userRepository,
		jwtService,
		ingredientService,
		recipeService,
		shoppingService,
		searchCache,
	)
	aiService := ai.NewAIService(caller, recipeService)

	// Handler
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       handlers.NewUserHandler(userService, validator),
		RecipeHandler:     handlers.NewRecipeHandler(recipeService, validator),
		IngredientHandler: handlers.NewIngredientHandler(ingredientService, validator),
		ShoppingHandler:   handlers.NewShoppingHandler(shoppingService, validator),
		MealPlanHandler:   handlers.NewMealPlanHandler(mealPlanService, validator),
		TagHandler:        handlers.NewTagHandler(tagService, validator),
		ImageHandler:      handlers.NewImageHandler(imageService, validator),
		KrogerHandler:     handlers.NewKrogerHandler(krogerService, validator, utils.GetConfig("APP_URL")),
		AIHandler:         handlers.NewAIHandler(aiService, validator),
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
