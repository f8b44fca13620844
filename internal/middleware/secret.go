package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/coachlab/pkg"
)

// RequireSecret guards machine-to-machine endpoints (cron, mcp) with a shared secret,
// compared against its bcrypt hash.
func RequireSecret(headerName, secretHash string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get(headerName)
			if secret == "" || secretHash == "" || !pkg.CheckPasswordHash(secret, secretHash) {
				reqIp, _ := pkg.ReadUserIP(r)
				log.Warnf("invalid %s for [%s] from [%s]", headerName, r.URL.Path, reqIp)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
