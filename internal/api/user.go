package api

import (
	"net/http" // HTTP status codes
	"strings"  // Path prefix check

	"bookstore/internal/middleware" // Caller identity
	"bookstore/internal/service"    // Account service
	"bookstore/internal/storage"    // Avatar storage

	"github.com/gin-gonic/gin" // Gin web framework
)

const avatarField = "file" // Multipart field holding an avatar

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account from a JSON body or a multipart form with an optional avatar
func RegisterHandler(users *service.Users, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.RegisterInput
		if isMultipart(c) {
			if err := c.ShouldBind(&in); err != nil {
				badRequest(c, "Invalid request")
				return
			}
			path, err := saveUpload(c, store, avatarField, storage.FolderProfiles)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			in.ProfileImageURL = path
		} else if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := users.Register(c.Request.Context(), in)
		if err != nil {
			discardUpload(c, store, in.ProfileImageURL) // Do not keep avatars of failed registrations
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Registration successful",
			"user":    service.ToProfile(user, baseURL(c)),
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Username and password are required")
			return
		}
		token, err := users.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}

// ProfileHandler returns the caller's account
func ProfileHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Get(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, service.ToProfile(user, baseURL(c)))
	}
}

// UpdateProfileHandler overwrites the non-blank profile fields
func UpdateProfileHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd service.ProfileUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := users.UpdateProfile(c.Request.Context(), middleware.UserID(c), upd)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, service.ToProfile(user, baseURL(c)))
	}
}

// UploadProfileImageHandler stores a new avatar and returns its absolute URL
func UploadProfileImageHandler(users *service.Users, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := saveUpload(c, store, avatarField, storage.FolderProfiles)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if path == "" {
			badRequest(c, "No file uploaded")
			return
		}
		userID := middleware.UserID(c)
		previous, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			discardUpload(c, store, path)
			respondError(c, err)
			return
		}
		if _, err := users.SetProfileImage(c.Request.Context(), userID, path); err != nil {
			discardUpload(c, store, path)
			respondError(c, err)
			return
		}
		if old := storage.NormalizePath(previous.ProfileImageURL); strings.HasPrefix(old, storage.PublicPrefix) && old != path {
			discardUpload(c, store, old) // Replaced avatar
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": service.AbsoluteURL(baseURL(c), path)})
	}
}
