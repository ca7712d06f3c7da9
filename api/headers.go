package api

import (
	"net/http"
	"net/url"
)

// Alert actions reported in the X-{app}-alert header.
const (
	alertCreated = "created"
	alertUpdated = "updated"
	alertDeleted = "deleted"
)

// entityAlert sets the alert headers a client shows after a successful
// change, e.g. `X-blogApp-alert: blogApp.blogBlog.created`.
func entityAlert(w http.ResponseWriter, appName, entityName, action, param string) {
	w.Header().Set("X-"+appName+"-alert", appName+"."+entityName+"."+action)
	w.Header().Set("X-"+appName+"-params", url.QueryEscape(param))
}

func failureAlert(w http.ResponseWriter, appName, entityName, errorKey string) {
	w.Header().Set("X-"+appName+"-error", "error."+errorKey)
	w.Header().Set("X-"+appName+"-params", entityName)
}
