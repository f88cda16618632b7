package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/user"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/mail"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
)

type Dependencies struct {
	JWT       *JWTManager
	Sessions  StoreResolver
	Directory *Directory
	Mailer    mail.Mailer
	Logger    *zap.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Mailer == nil {
		d.Mailer = mail.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Handler{deps: d}
}

type registerReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,max=72"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileReq struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// IssueVisitor mints a token for a fresh storage namespace.
func (h *Handler) IssueVisitor(c *gin.Context) {
	vid := NewVisitorID()
	token, exp, err := h.deps.JWT.SignVisitor(vid)
	if err != nil {
		h.deps.Logger.Error("failed to sign visitor token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"visitor_id":   vid,
		"access_token": token,
		"access_exp":   exp,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	p, err := s.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.fail(c, err)
		return
	}

	// website style: a mail failure never fails the registration
	subject, body := mail.Welcome(p.FirstName)
	if err := h.deps.Mailer.Send(p.Email, subject, body); err != nil {
		h.deps.Logger.Warn("failed to send welcome email", zap.String("account_id", p.ID), zap.Error(err))
	}

	notify.JSON(c, http.StatusCreated, gin.H{"user": p})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	p, err := s.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"user": p})
}

func (h *Handler) Logout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Logout(c.Request.Context())
	notify.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	p, ok := s.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": Message(ErrNotAuthenticated)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p, "loading": s.IsLoading()})
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	p, err := s.UpdateProfile(c.Request.Context(), user.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"user": p})
}

// AdminListAccounts never exposes password hashes.
func (h *Handler) AdminListAccounts(c *gin.Context) {
	accounts, err := h.deps.Directory.List(c.Request.Context())
	if err != nil {
		h.deps.Logger.Error("failed to list accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load accounts"})
		return
	}
	out := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, sanitizeAccount(a))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func sanitizeAccount(a user.Account) gin.H {
	return gin.H{
		"id":         a.ID,
		"email":      a.Email,
		"firstName":  a.FirstName,
		"lastName":   a.LastName,
		"isAdmin":    a.IsAdmin,
		"created_at": a.CreatedAt,
	}
}

func (h *Handler) session(c *gin.Context) (*Store, bool) {
	s, err := h.deps.Sessions(c)
	if err != nil {
		h.deps.Logger.Error("failed to load session store", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	return s, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	notify.ErrorJSON(c, StatusFor(err), Message(err))
}

// StatusFor maps auth errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
