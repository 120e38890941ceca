package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/domain"     // Roles
	"bookstore/internal/middleware" // Auth, logging and CORS
	"bookstore/internal/service"    // Services
	"bookstore/internal/storage"    // Upload storage
	"bookstore/internal/utils"      // Token manager

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the components the router wires into handlers
type Deps struct {
	Tokens         *utils.TokenManager
	Catalog        *service.Catalog
	Taxonomy       *service.Taxonomy
	Requests       *service.BookRequests
	Carts          *service.Carts
	Favorites      *service.Favorites
	Users          *service.Users
	Recommender    *service.Recommender
	Store          storage.Store
	CORSOrigins    []string // Allowed browser origins, empty disables CORS
	TrustedProxies []string // Proxies whose forwarding headers are trusted
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger())
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	scheme, err := middleware.ForwardedScheme(d.TrustedProxies) // X-Forwarded-Proto from trusted proxies only
	if err != nil {
		return nil, err
	}
	r.Use(scheme)
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}
	r.MaxMultipartMemory = 8 << 20

	auth := middleware.JWTAuth(d.Tokens)         // Token required
	optional := middleware.OptionalJWT(d.Tokens) // Token read when present
	admin := middleware.RequireRoles(domain.RoleAdmin)
	author := middleware.RequireRoles(domain.RoleAuthor)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/uploads/*path", ServeUploadHandler(d.Store))

	// Catalog routes
	books := r.Group("/book")
	books.GET("", optional, ListBooksHandler(d.Catalog))
	books.GET("/search", optional, SearchBooksHandler(d.Catalog))
	books.GET("/filter", optional, FilterBooksHandler(d.Catalog))
	books.GET("/:id", optional, GetBookHandler(d.Catalog))
	books.POST("", auth, admin, CreateBookHandler(d.Catalog))
	books.PUT("/:id", auth, admin, UpdateBookHandler(d.Catalog))
	books.DELETE("/:id", auth, admin, DeleteBookHandler(d.Catalog))
	books.PATCH("/:id/status", auth, admin, SetBookStatusHandler(d.Catalog))
	books.PUT("/:id/approve", auth, admin, ApproveBookHandler(d.Catalog))

	// Submission workflow
	books.POST("/submit", auth, author, SubmitBookRequestHandler(d.Requests, d.Store))
	books.GET("/my-requests", auth, author, MyBookRequestsHandler(d.Requests))
	books.GET("/requests", auth, admin, ListBookRequestsHandler(d.Requests))
	books.GET("/requests/pending", auth, admin, PendingBookRequestsHandler(d.Requests))
	books.PUT("/requests/:id/approve", auth, admin, ApproveBookRequestHandler(d.Requests))
	books.PUT("/requests/:id/reject", auth, admin, RejectBookRequestHandler(d.Requests))

	// Taxonomy routes
	r.GET("/author", ListAuthorsHandler(d.Taxonomy))
	r.POST("/author", auth, admin, CreateAuthorHandler(d.Taxonomy))
	r.DELETE("/author/:id", auth, admin, DeleteAuthorHandler(d.Taxonomy))
	r.GET("/category", ListCategoriesHandler(d.Taxonomy))
	r.POST("/category", auth, admin, CreateCategoryHandler(d.Taxonomy))
	r.DELETE("/category/:id", auth, admin, DeleteCategoryHandler(d.Taxonomy))

	// Cart routes (protected by JWT)
	cart := r.Group("/cart", auth)
	cart.GET("", GetCartHandler(d.Carts))
	cart.DELETE("/clear", ClearCartHandler(d.Carts))
	cart.POST("/:bookId", AddToCartHandler(d.Carts))
	cart.PUT("/:bookId", SetCartQuantityHandler(d.Carts))
	cart.DELETE("/:bookId", RemoveFromCartHandler(d.Carts))

	// Favorite routes (protected by JWT)
	fav := r.Group("/favorite", auth)
	fav.GET("", ListFavoritesHandler(d.Favorites))
	fav.POST("/:bookId", AddFavoriteHandler(d.Favorites))
	fav.DELETE("/:bookId", RemoveFavoriteHandler(d.Favorites))

	// Account routes
	user := r.Group("/user")
	user.POST("/register", RegisterHandler(d.Users, d.Store))
	user.POST("/login", LoginHandler(d.Users))
	user.GET("/profile", auth, ProfileHandler(d.Users))
	user.PUT("/update", auth, UpdateProfileHandler(d.Users))
	user.POST("/upload-profile-image", auth, UploadProfileImageHandler(d.Users, d.Store))

	r.GET("/recommendation", RecommendationHandler(d.Recommender))
	return r, nil
}
