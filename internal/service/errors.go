package service

import "github.com/d60-Lab/microblog/pkg/apperr"

var (
	ErrTweetNotFound    = apperr.NotFound("Tweet doesn't exist!")
	ErrUserNotFound     = apperr.NotFound("User doesn't exist!")
	ErrLikeNotFound     = apperr.NotFound("You haven't liked this tweet!")
	ErrAlreadyLiked     = apperr.Conflict("You already liked this tweet!")
	ErrNotFollowing     = apperr.NotFound("You haven't followed this user!")
	ErrAlreadyFollowed  = apperr.Conflict("You already followed this user!")
	ErrFollowSelf       = apperr.Validation("You can't follow yourself!")
	ErrForbidden        = apperr.Forbidden("Forbidden Error")
	ErrSignInForbidden  = apperr.Forbidden("Access to the requested resource is forbidden")
	ErrBadCredentials   = apperr.Unauthorized("帳號或密碼輸入錯誤!")
	ErrInvalidToken     = apperr.Unauthorized("Unauthorized")
	ErrPasswordMismatch = apperr.Validation("Passwords do not match!")
	ErrNameTooLong      = apperr.Validation("The length of name exceeds 50 characters.")
	ErrProfileTooLong   = apperr.Validation("Character Length Exceeds!")
	ErrAccountTaken     = apperr.Conflict("This account is already registered")
	ErrEmailTaken       = apperr.Conflict("This email is already registered")
)
