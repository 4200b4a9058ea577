// controllers/admin.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"lens-admin/models"
	"lens-admin/store"
	"lens-admin/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminCollection = "admin_users"

// AdminController handles operator authentication and account management
type AdminController struct {
	Store *store.Store
}

// NewAdminController creates a new AdminController
func NewAdminController(s *store.Store) *AdminController {
	return &AdminController{Store: s}
}

// Login authenticates an operator and issues the session cookie. The
// bootstrap admin account is synthesized when missing so a fresh database is
// always reachable.
func (ac *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	collection, err := ac.Store.Collection(adminCollection)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ac.ensureBootstrapAdmin(ctx, collection); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var user models.AdminUser
	err = collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !utils.VerifyPassword(user.Password, creds.Password) {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Legacy records hold the raw password; upgrade them to a hash now that
	// the login succeeded.
	if !utils.IsHashedPassword(user.Password) {
		if hashed, hashErr := utils.HashPassword(creds.Password); hashErr == nil {
			if _, updErr := collection.UpdateOne(ctx, bson.M{"_id": user.ID},
				bson.M{"$set": bson.M{"password": hashed}}); updErr != nil {
				log.Printf("Failed to rehash password for %s: %v", user.Email, updErr)
			}
		}
	}

	token, err := utils.GenerateJWT(user.Email, user.Role, user.Name)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	setSessionCookie(w, token, int(utils.SessionDuration.Seconds()))

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"email": user.Email,
			"role":  user.Role,
			"name":  user.Name,
		},
	})
}

// ensureBootstrapAdmin synthesizes the default admin account on first login
// attempt against an empty admin collection.
func (ac *AdminController) ensureBootstrapAdmin(ctx context.Context, collection *mongo.Collection) error {
	err := collection.FindOne(ctx, bson.M{"email": models.DefaultAdminEmail}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	_, err = collection.InsertOne(ctx, models.AdminUser{
		Email:     models.DefaultAdminEmail,
		Password:  hashed,
		Role:      models.RoleAdmin,
		Name:      "Super Admin",
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// Logout clears the session cookie
func (ac *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	setSessionCookie(w, "", -1)
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{})
}

// Session validates the current token and returns its claims
func (ac *AdminController) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(utils.SessionCookie)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	claims, err := utils.ParseToken(cookie.Value)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"email": claims.Email,
			"role":  claims.Role,
			"name":  claims.Name,
		},
	})
}

// ListUsers returns every operator account, credentials excluded
func (ac *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	collection, err := ac.Store.Collection(adminCollection)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	users := []models.AdminUser{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

// CreateUser adds an operator account with a hashed password
func (ac *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !models.ValidRole(req.Role) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	collection, err := ac.Store.Collection(adminCollection)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if count > 0 {
		utils.WriteError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	_, err = collection.InsertOne(ctx, models.AdminUser{
		Email:     req.Email,
		Password:  hashed,
		Role:      req.Role,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{})
}

// DeleteUser removes an operator account by email. The primary admin cannot
// be deleted.
func (ac *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if email == models.DefaultAdminEmail {
		utils.WriteError(w, http.StatusBadRequest, "Cannot delete primary admin")
		return
	}

	collection, err := ac.Store.Collection(adminCollection)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := collection.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{})
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
