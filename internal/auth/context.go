package auth

import "github.com/gin-gonic/gin"

// CtxRequester is the Gin context key the auth gate stores the verified
// identity under.
const CtxRequester = "requester"

// Requester is the identity attached to a request after the auth gate has
// verified its token. Handlers read only the id and role.
type Requester struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// SetRequester attaches a verified identity to the request context.
func SetRequester(c *gin.Context, r Requester) {
	c.Set(CtxRequester, r)
}

// RequesterFrom returns the verified identity, or nil when the request
// reached the handler without passing the auth gate.
func RequesterFrom(c *gin.Context) *Requester {
	v, ok := c.Get(CtxRequester)
	if !ok {
		return nil
	}
	r, ok := v.(Requester)
	if !ok {
		return nil
	}
	return &r
}
