package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/service"
	"github.com/pickboard/pickboard-backend/pkg/ginutil"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// Page texts
const (
	msgPostsFailed    = "Failed to load posts."
	msgMyPostsFailed  = "Failed to load your posts."
	msgTopPicksFailed = "Failed to load top picks."
	msgUserNotFound   = "User not found."
	msgPostNotFound   = "Post not found."
	msgSomethingWrong = "Something went wrong. Please try again."
)

// PageServices groups the services used by the HTML pages
type PageServices struct {
	Auth        service.AuthService
	Posts       service.PostService
	Comments    service.CommentService
	Likes       service.LikeService
	Leaderboard service.LeaderboardService
	Profiles    service.ProfileService
}

// PageHandler renders the server-side HTML pages
type PageHandler struct {
	svc     PageServices
	cookies CookieSettings
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(svc PageServices, cookies CookieSettings) *PageHandler {
	return &PageHandler{svc: svc, cookies: cookies}
}

// RestoreSession signs the browser back in from the refresh cookie once the access token is gone
func (h *PageHandler) RestoreSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.GetActor(c) == nil {
			if refresh, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refresh != "" {
				session, err := h.svc.Auth.Refresh(c.Request.Context(), refresh)
				if err != nil {
					clearSessionCookies(c, h.cookies)
				} else {
					setSessionCookies(c, h.cookies, session)
					middleware.SetActor(c, &domain.Actor{
						ID:       session.User.ID,
						Email:    session.User.Email,
						Username: session.User.Username,
					})
				}
			}
		}
		c.Next()
	}
}

func (h *PageHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Actor"] = middleware.GetActor(c)
	data["CSRF"] = middleware.GetCSRFToken(c)
	c.HTML(status, name, data)
}

// requireLogin redirects anonymous visitors to the login page
func (h *PageHandler) requireLogin(c *gin.Context) (*domain.Actor, bool) {
	actor := middleware.GetActor(c)
	if actor == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		return nil, false
	}
	return actor, true
}

// nextPath returns the form's local redirect target, or fallback
func nextPath(c *gin.Context, fallback string) string {
	next := c.PostForm("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return fallback
}

func userMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return msgSomethingWrong
	}
	return err.Error()
}

// ========================================
// Feed
// ========================================

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{"Title": "Feed"}

	posts, err := h.svc.Posts.ListPosts(ctx, middleware.GetUserID(c))
	if err != nil {
		pkglogger.Error("feed: %v", err)
		data["PostsError"] = msgPostsFailed
	} else {
		data["Posts"] = posts
	}

	picks, err := h.svc.Leaderboard.TopPicks(ctx)
	if err != nil {
		pkglogger.Error("top picks: %v", err)
		data["TopPicksError"] = msgTopPicksFailed
	} else {
		data["TopPicks"] = picks
	}

	h.render(c, http.StatusOK, "index.html", data)
}

// ========================================
// Auth
// ========================================

// LoginForm handles GET /login
func (h *PageHandler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Email": ""})
}

// Login handles POST /login
func (h *PageHandler) Login(c *gin.Context) {
	var req domain.SignInRequest
	bindForm(c, "login", &req)
	email := req.Email

	session, err := h.svc.Auth.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.render(c, statusFor(err), "login.html", gin.H{"Title": "Login", "Error": userMessage(err), "Email": email})
		return
	}

	setSessionCookies(c, h.cookies, session)
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterForm handles GET /register
func (h *PageHandler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register handles POST /register
func (h *PageHandler) Register(c *gin.Context) {
	var req domain.SignUpRequest
	bindForm(c, "register", &req)
	form := gin.H{"Email": req.Email, "Username": req.Username}

	result, err := h.svc.Auth.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.render(c, statusFor(err), "register.html", gin.H{"Title": "Register", "Error": userMessage(err), "Form": form})
		return
	}

	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Message": result.Message})
}

// Logout handles POST /logout
func (h *PageHandler) Logout(c *gin.Context) {
	refresh, _ := c.Cookie(middleware.RefreshTokenCookie)
	if err := h.svc.Auth.SignOut(c.Request.Context(), refresh); err != nil {
		pkglogger.Warn("sign out: %v", err)
	}
	clearSessionCookies(c, h.cookies)
	c.Redirect(http.StatusSeeOther, "/login")
}

// ========================================
// Posts
// ========================================

// CreateForm handles GET /create
func (h *PageHandler) CreateForm(c *gin.Context) {
	if _, ok := h.requireLogin(c); !ok {
		return
	}
	h.render(c, http.StatusOK, "create.html", gin.H{"Title": "New Pick"})
}

// Create handles POST /create
func (h *PageHandler) Create(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}

	var req domain.CreatePostRequest
	bindForm(c, "create", &req)

	if _, err := h.svc.Posts.CreatePost(c.Request.Context(), actor, &req); err != nil {
		h.render(c, statusFor(err), "create.html", gin.H{"Title": "New Pick", "Error": userMessage(err), "Form": req})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ShowPost handles GET /posts/:id
func (h *PageHandler) ShowPost(c *gin.Context) {
	h.renderPost(c, http.StatusOK, "")
}

func (h *PageHandler) renderPost(c *gin.Context, status int, commentError string) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		h.render(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Error": msgPostNotFound})
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.GetUserID(c)
	post, err := h.svc.Posts.GetPost(ctx, id, viewer)
	if err != nil {
		msg := msgPostsFailed
		if errors.Is(err, common.ErrPostNotFound) {
			msg = msgPostNotFound
		}
		h.render(c, statusFor(err), "error.html", gin.H{"Title": "Pick", "Error": msg})
		return
	}

	data := gin.H{"Title": post.Title, "Post": post, "CommentError": commentError}
	comments, err := h.svc.Comments.ListComments(ctx, id, viewer)
	if err != nil {
		pkglogger.Error("comments: %v", err)
		data["CommentsError"] = "Failed to load comments."
	} else {
		data["Comments"] = comments
	}
	h.render(c, status, "post.html", data)
}

// DeletePost handles POST /posts/:id/delete
func (h *PageHandler) DeletePost(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	if err := h.svc.Posts.DeletePost(c.Request.Context(), actor, id); err != nil {
		h.render(c, statusFor(err), "error.html", gin.H{"Title": "Pick", "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}

// LikePost handles POST /posts/:id/like
func (h *PageHandler) LikePost(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}
	id, err := ginutil.ParamUint64(c, "id")
	if err == nil {
		_, err = h.svc.Likes.TogglePostLike(c.Request.Context(), actor, id)
	}
	if err != nil {
		h.render(c, statusFor(err), "error.html", gin.H{"Title": "Pick", "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, nextPath(c, "/"))
}

// Comment handles POST /posts/:id/comments
func (h *PageHandler) Comment(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		h.render(c, http.StatusNotFound, "error.html", gin.H{"Title": "Pick", "Error": msgPostNotFound})
		return
	}

	var req domain.CommentRequest
	bindForm(c, "comment", &req)
	if _, err := h.svc.Comments.CreateComment(c.Request.Context(), actor, id, &req); err != nil {
		if errors.Is(err, common.ErrEmptyComment) {
			h.renderPost(c, http.StatusBadRequest, err.Error())
			return
		}
		h.render(c, statusFor(err), "error.html", gin.H{"Title": "Pick", "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", id))
}

// LikeComment handles POST /comments/:id/like
func (h *PageHandler) LikeComment(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}
	id, err := ginutil.ParamUint64(c, "id")
	if err == nil {
		_, err = h.svc.Likes.ToggleCommentLike(c.Request.Context(), actor, id)
	}
	if err != nil {
		h.render(c, statusFor(err), "error.html", gin.H{"Title": "Comment", "Error": userMessage(err)})
		return
	}
	c.Redirect(http.StatusSeeOther, nextPath(c, "/"))
}

// ========================================
// Profiles
// ========================================

// Profile handles GET /profile
func (h *PageHandler) Profile(c *gin.Context) {
	actor, ok := h.requireLogin(c)
	if !ok {
		return
	}

	profile, err := h.svc.Profiles.MyProfile(c.Request.Context(), actor)
	if err != nil {
		pkglogger.Error("profile: %v", err)
		h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "Profile", "Error": msgMyPostsFailed})
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "Profile", "Profile": profile})
}

// UserPage handles GET /user?id=
func (h *PageHandler) UserPage(c *gin.Context) {
	userID, err := ginutil.QueryUint64(c, "id")
	if err != nil || userID == 0 {
		h.render(c, http.StatusNotFound, "user.html", gin.H{"Title": "User Profile", "Error": msgUserNotFound})
		return
	}

	profile, err := h.svc.Profiles.UserProfile(c.Request.Context(), userID, middleware.GetUserID(c))
	if err != nil {
		pkglogger.Error("user profile: %v", err)
		h.render(c, statusFor(err), "user.html", gin.H{"Title": "User Profile", "Error": msgPostsFailed})
		return
	}
	h.render(c, http.StatusOK, "user.html", gin.H{"Title": profile.Header, "Profile": profile})
}

// bindForm binds the posted form into dst. A failed bind leaves the fields
// empty for the service to reject, so the error is only logged.
func bindForm(c *gin.Context, form string, dst interface{}) {
	if err := c.ShouldBind(dst); err != nil {
		pkglogger.Debug("bind %s form: %v", form, err)
	}
}
