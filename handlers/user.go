package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/andrewpaige1/memora/auth"
	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/utils"
)

const minPasswordLength = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.PublicID, Email: u.Email, Name: u.DisplayName()}
}

// POST /api/auth/register
func (db *DBHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil || req.Email == "" {
		utils.WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password, db.BcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Register: hash password", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := db.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		storeError(w, r, "Register", err, "User not found")
		return
	}
	slog.InfoContext(r.Context(), "Register: created user", "user_id", user.PublicID)

	db.writeSession(w, r, http.StatusCreated, user)
}

// POST /api/auth/login
func (db *DBHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := db.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		storeError(w, r, "Login", err, "User not found")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if err := db.TouchLogin(r.Context(), user); err != nil {
		slog.WarnContext(r.Context(), "Login: could not record login time", "error", err)
	}

	db.writeSession(w, r, http.StatusOK, user)
}

// GET /api/auth/me
func (db *DBHandler) Me(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, toUserResponse(currentUser(r)))
}

func (db *DBHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := db.Tokens.CreateToken(user.PublicID, user.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "writeSession: token generation", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.WriteJSON(w, status, authResponse{
		Success: true,
		User:    toUserResponse(user),
		Token:   token,
	})
}
