package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateUserRequest is the JSON payload for registering a user.
type CreateUserRequest struct {
	// Username is 1-64 letters, digits or underscores.
	Username         string  `json:"username" binding:"required" example:"alice"`
	Bio              *string `json:"bio" example:"Gopher"`
	ProfilePictureID *string `json:"profile_picture_id" example:"pic_1"`
}

// UserListResponse wraps a list of user projections.
type UserListResponse struct {
	Users []domain.AuthorInfo `json:"users"`
	Count int                 `json:"count" example:"2"`
}

// FollowStatusResponse reports whether the caller follows a user.
type FollowStatusResponse struct {
	Following bool `json:"following" example:"true"`
}

// CreateUser godoc
// @ID          createUser
// @Summary     Register a user
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateUserRequest  true  "User payload"
//
// @Success     201  {object} domain.User
// @Failure     400  {object} handlers.ErrorResponse "Invalid username"
// @Failure     409  {object} handlers.ErrorResponse "Username taken"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username required")
		return
	}
	u, err := h.writes.CreateUser(c.Request.Context(), req.Username, req.Bio, req.ProfilePictureID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Follow godoc
// @ID          followUser
// @Summary     Follow a user
// @Tags        Users
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       username   path    string  true  "User to follow"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Cannot follow yourself"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     409  {object} handlers.ErrorResponse "Already following"
// @Router      /users/{username}/follow [post]
func (h *Handlers) Follow(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	if err := h.writes.Follow(c.Request.Context(), uid, c.Param("username")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Unfollow godoc
// @ID          unfollowUser
// @Summary     Unfollow a user
// @Tags        Users
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       username   path    string  true  "User to unfollow"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     409  {object} handlers.ErrorResponse "Not following"
// @Router      /users/{username}/follow [delete]
func (h *Handlers) Unfollow(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	if err := h.writes.Unfollow(c.Request.Context(), uid, c.Param("username")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// userList runs a follow-list loader for the username in the path.
func (h *Handlers) userList(c *gin.Context, load func(username string, limit int) ([]domain.AuthorInfo, error)) {
	limit, valid := queryInt(c, "limit", h.opts.DefaultLimit)
	if !valid {
		return
	}
	users, err := load(c.Param("username"), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	if users == nil {
		users = []domain.AuthorInfo{}
	}
	okETag(c, UserListResponse{Users: users, Count: len(users)})
}

// GetFollowers godoc
// @ID          getFollowers
// @Summary     Followers of a user
// @Description Returns the users following a user, most recent follow first.
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.UserListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/followers [get]
func (h *Handlers) GetFollowers(c *gin.Context) {
	h.userList(c, func(username string, limit int) ([]domain.AuthorInfo, error) {
		return h.social.Followers(c.Request.Context(), username, limit)
	})
}

// GetFollowing godoc
// @ID          getFollowing
// @Summary     Users a user follows
// @Description Returns the users a user follows, most recent follow first.
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.UserListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/following [get]
func (h *Handlers) GetFollowing(c *gin.Context) {
	h.userList(c, func(username string, limit int) ([]domain.AuthorInfo, error) {
		return h.social.Following(c.Request.Context(), username, limit)
	})
}

// GetFollowStatus godoc
// @ID          getFollowStatus
// @Summary     Follow status
// @Description Reports whether the caller follows the user.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       username   path    string  true  "Username" example(alice)
//
// @Success     200  {object} handlers.FollowStatusResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/follow-status [get]
func (h *Handlers) GetFollowStatus(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	following, err := h.social.FollowStatus(c.Request.Context(), uid, c.Param("username"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FollowStatusResponse{Following: following})
}

// GetUserStats godoc
// @ID          getUserStats
// @Summary     Follow counts
// @Description Returns how many users follow the user and how many the user follows.
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
//
// @Success     200  {object} domain.UserStats
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/stats [get]
func (h *Handlers) GetUserStats(c *gin.Context) {
	st, err := h.social.Stats(c.Request.Context(), c.Param("username"))
	if err != nil {
		failErr(c, err)
		return
	}
	okETag(c, st)
}
