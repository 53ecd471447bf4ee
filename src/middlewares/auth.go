package middlewares

import (
	"log"
	"net/http"
	"os"
	"strings"

	"hyggely/src/db"
	"hyggely/src/models"
	"hyggely/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// AdminAuthMiddleware gates the admin API: a valid bearer token whose email
// maps to a row in the admins table.
func AdminAuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	var admin models.Admin
	dbi := db.GetDb()
	err = dbi.
		Model(&models.Admin{}).
		Where(&models.Admin{Email: email}).
		First(&admin).
		Error
	if err != nil {
		log.Printf("admin lookup failed for %s: %s\n", email, err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ctx.Set("id", admin.ID)
	ctx.Set("email", admin.Email)
	ctx.Set("name", admin.Name)
	ctx.Set("role", admin.Role)
}
