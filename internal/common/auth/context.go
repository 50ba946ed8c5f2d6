package auth

import "github.com/gin-gonic/gin"

// ContextUserKey is where the auth middleware stores the verified user.
const ContextUserKey = "authUser"

// UserFrom returns the verified user the middleware attached to the request.
func UserFrom(c *gin.Context) (*User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok
}

// SetUser attaches the verified user to the request context.
func SetUser(c *gin.Context, user *User) {
	c.Set(ContextUserKey, user)
}
