package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionUserKey = "admin_user"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验配置中的管理员账号并建立会话。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	if !a.checkCredentials(req.Username, req.Password) {
		a.logger.WithField("client_ip", c.ClientIP()).Warn("admin login rejected")
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, a.adminUsername)
	if err := session.Save(); err != nil {
		fail(c, err, "")
		return
	}

	respondData(c, http.StatusOK, gin.H{"username": a.adminUsername})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session reports the signed-in admin.
func (a *API) Session(c *gin.Context) {
	username, ok := sessions.Default(c).Get(sessionUserKey).(string)
	if !ok || username == "" {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondData(c, http.StatusOK, gin.H{"username": username})
}

// AuthRequired 是一个简单的认证中间件，未登录时返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, ok := sessions.Default(c).Get(sessionUserKey).(string); !ok || username == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ListLeads 返回最新的线索。
func (a *API) ListLeads(c *gin.Context) {
	leads, err := a.leads.List(c.Request.Context(), parsePositiveInt(c.Query("limit"), 100))
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, leads)
}

func (a *API) checkCredentials(username, password string) bool {
	if a.adminUsername == "" || len(a.adminPasswordHash) == 0 {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(a.adminUsername)) == 1
	// 与 NewAPI 中对配置密码的处理保持一致。
	passOK := bcrypt.CompareHashAndPassword(a.adminPasswordHash, []byte(strings.TrimSpace(password))) == nil
	return userOK && passOK
}
