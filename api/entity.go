package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/rpupo63/jhipster-sample-services/errs"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"
	contentTypeNDJSON     = "application/x-ndjson"

	maxBodyBytes = 16 << 20
)

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// requirePatchContentType accepts JSON and JSON merge-patch bodies only.
func requirePatchContentType(r *http.Request) error {
	allowed := []string{contentTypeJSON, contentTypeMergePatch}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != contentTypeJSON && mediaType != contentTypeMergePatch) {
		return errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), allowed)
	}
	return nil
}

// checkCreateID rejects create requests whose body already carries an id.
func checkCreateID(bodyID, entityName, label string) error {
	if bodyID != "" {
		return errs.NewBadRequestAlertError("A new "+label+" cannot already have an ID", entityName, errs.KeyIDExists)
	}
	return nil
}

// checkUpdateID validates the body id against the path id and makes sure the
// entity exists.
func checkUpdateID(ctx context.Context, pathID string, bodyID *string, entityName string, exists func(context.Context, string) (bool, error)) error {
	if bodyID == nil || *bodyID == "" {
		return errs.NewBadRequestAlertError("Invalid id", entityName, errs.KeyIDNull)
	}
	if *bodyID != pathID {
		return errs.NewBadRequestAlertError("Invalid ID", entityName, errs.KeyIDInvalid)
	}
	found, err := exists(ctx, pathID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewBadRequestAlertError("Entity not found", entityName, errs.KeyIDNotFound)
	}
	return nil
}

// acceptsNDJSON reports whether the client asked for a streamed listing.
func acceptsNDJSON(r *http.Request) bool {
	for _, value := range r.Header.Values("Accept") {
		for _, part := range strings.Split(value, ",") {
			if mediaType, _, err := mime.ParseMediaType(part); err == nil && mediaType == contentTypeNDJSON {
				return true
			}
		}
	}
	return false
}
