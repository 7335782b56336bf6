package routes

import (
	"Recipe-Book/internal/api/handlers"
	"Recipe-Book/internal/middleware"
	"Recipe-Book/internal/utils/metrics"
	"Recipe-Book/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	IngredientHandler handlers.IngredientHandler
	ShoppingHandler   handlers.ShoppingHandler
	MealPlanHandler   handlers.MealPlanHandler
	TagHandler        handlers.TagHandler
	ImageHandler      handlers.ImageHandler
	KrogerHandler     handlers.KrogerHandler
	AIHandler         handlers.AIHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Recipes()
	c.Ingredients()
	c.ShoppingList()
	c.MealPlan()
	c.Tags()
	c.Images()
	c.Kroger()
	c.AI()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", metrics.Handler())
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Get("/extras", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetExtras)
		user.Patch("/extras", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateExtras)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))

	recipes.Post("/parse-text", c.RecipeHandler.ParseText)
	recipes.Post("/import", c.RecipeHandler.ImportRecipe)

	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/touch-up", c.AIHandler.TouchUpRecipe)
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients", c.Middleware.AuthMiddleware(c.JWTService))

	ingredients.Post("", c.IngredientHandler.CreateIngredient)
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Patch("/:id", c.IngredientHandler.UpdateIngredient)
	ingredients.Delete("/:id", c.IngredientHandler.DeleteIngredient)
}

func (c *Config) ShoppingList() {
	list := c.App.Group("/api/v1/shopping-list", c.Middleware.AuthMiddleware(c.JWTService))

	list.Get("", c.ShoppingHandler.GetList)
	list.Post("", c.ShoppingHandler.AddItem)
	list.Post("/recipe", c.ShoppingHandler.AddRecipe)
	list.Post("/email", c.ShoppingHandler.EmailList)
	list.Delete("/bought", c.ShoppingHandler.ClearBought)
	list.Patch("/:id/bought", c.ShoppingHandler.ToggleBought)
	list.Patch("/:id/aisle", c.ShoppingHandler.UpdateAisle)
	list.Delete("/:id", c.ShoppingHandler.DeleteItem)
}

func (c *Config) MealPlan() {
	plan := c.App.Group("/api/v1/meal-plan", c.Middleware.AuthMiddleware(c.JWTService))

	plan.Get("", c.MealPlanHandler.GetMeals)
	plan.Post("", c.MealPlanHandler.AddMeal)
	plan.Post("/shopping-list", c.MealPlanHandler.AddToShoppingList)
	plan.Patch("/:id", c.MealPlanHandler.UpdateMeal)
	plan.Delete("/:id", c.MealPlanHandler.DeleteMeal)
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/v1/tags", c.Middleware.AuthMiddleware(c.JWTService))

	tags.Get("", c.TagHandler.GetTags)
	tags.Post("", c.TagHandler.CreateTag)
	tags.Patch("/:id", c.TagHandler.RenameTag)
	tags.Delete("/:id", c.TagHandler.DeleteTag)
}

func (c *Config) Images() {
	images := c.App.Group("/api/v1/images", c.Middleware.AuthMiddleware(c.JWTService))

	images.Post("/upload-url", c.ImageHandler.RequestUpload)
	images.Post("", c.ImageHandler.UploadImage)
	images.Post("/:id/confirm", c.ImageHandler.ConfirmUpload)
	images.Delete("/:id", c.ImageHandler.DeleteImage)
}

func (c *Config) Kroger() {
	c.App.Get("/api/v1/kroger/callback", c.KrogerHandler.Callback)

	kroger := c.App.Group("/api/v1/kroger", c.Middleware.AuthMiddleware(c.JWTService))
	kroger.Get("/authorize", c.KrogerHandler.Authorize)
	kroger.Delete("/connection", c.KrogerHandler.Disconnect)
	kroger.Get("/locations", c.KrogerHandler.SearchLocations)
	kroger.Get("/products", c.KrogerHandler.SearchProducts)
	kroger.Post("/cart", c.KrogerHandler.AddToCart)
	kroger.Get("/purchases", c.KrogerHandler.GetPurchases)
}

func (c *Config) AI() {
	ai := c.App.Group("/api/v1/ai", c.Middleware.AuthMiddleware(c.JWTService))

	ai.Post("/generate", c.AIHandler.GenerateRecipe)
}
