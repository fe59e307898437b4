package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Per-request deadlines.
const (
	defaultTimeout = 5 * time.Second
	uploadTimeout  = 10 * time.Second
	resetTimeout   = 30 * time.Second
)

var errInvalidID = errors.New("invalid id")

func parseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// pathID reads an ObjectID route variable, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := parseID(mux.Vars(r)[name])
	if err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid %s", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

func withTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

// form is a request body that may arrive as multipart/form-data or as JSON.
// Multipart endpoints accept both so scripted clients can skip the files.
type form struct {
	r      *http.Request
	values map[string][]string
	opened []*media.Upload
}

func readForm(r *http.Request, maxBytes int64) (*form, error) {
	f := &form{r: r, values: map[string][]string{}}
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		for k, v := range r.MultipartForm.Value {
			f.values[k] = v
		}
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		for k, v := range r.PostForm {
			f.values[k] = v
		}
	default:
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBytes)).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, v := range raw {
			f.values[k] = jsonValues(v)
		}
	}
	return f, nil
}

// jsonValues flattens a JSON value into form strings. Arrays become one value per
// element; objects keep their raw JSON.
func jsonValues(raw json.RawMessage) []string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return []string{s}
	}
	var arr []json.RawMessage
	if json.Unmarshal(raw, &arr) == nil {
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			out = append(out, jsonValues(el)...)
		}
		return out
	}
	if string(raw) == "null" {
		return nil
	}
	return []string{string(raw)}
}

func (f *form) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *form) value(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// optional returns nil when the key is absent.
func (f *form) optional(key string) *string {
	if !f.has(key) {
		return nil
	}
	v := f.value(key)
	return &v
}

// list accepts repeated fields or a single JSON array string.
func (f *form) list(key string) []string {
	v := f.values[key]
	if len(v) == 1 && strings.HasPrefix(strings.TrimSpace(v[0]), "[") {
		var out []string
		if json.Unmarshal([]byte(v[0]), &out) == nil {
			return out
		}
	}
	return v
}

func (f *form) flag(key string) bool {
	b, _ := strconv.ParseBool(f.value(key))
	return b
}

func (f *form) optionalBool(key string) (*bool, error) {
	if !f.has(key) {
		return nil, nil
	}
	b, err := strconv.ParseBool(f.value(key))
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &b, nil
}

func (f *form) optionalInt(key string) (*int, error) {
	if !f.has(key) || f.value(key) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(f.value(key))
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// decode parses a field holding a JSON document (notificationPrefs, theme...).
func (f *form) decode(key string, dst interface{}) (bool, error) {
	if !f.has(key) || f.value(key) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(f.value(key)), dst); err != nil {
		return false, fmt.Errorf("%s must be valid JSON", key)
	}
	return true, nil
}

// file opens the named upload, or returns nil when none was sent.
func (f *form) file(key string) (*media.Upload, error) {
	if f.r.MultipartForm == nil || len(f.r.MultipartForm.File[key]) == 0 {
		return nil, nil
	}
	up, err := media.FromFileHeader(f.r.MultipartForm.File[key][0])
	if err != nil {
		return nil, err
	}
	f.opened = append(f.opened, up)
	return up, nil
}

// close releases opened uploads and the multipart temp files.
func (f *form) close() {
	for _, up := range f.opened {
		up.Close()
	}
	if f.r.MultipartForm != nil {
		f.r.MultipartForm.RemoveAll()
	}
}
