package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

// Wire types use pointers so that absent and null fields can be told apart
// from empty values. Nested arrays stay raw and are decoded element by element,
// so every error can name its indexed path.
type wireSection struct {
	Title    *string            `json:"title"`
	Children *[]json.RawMessage `json:"children"`
}

type wireMovie struct {
	Title      *string            `json:"title"`
	Banner     *string            `json:"banner"`
	Poster     *string            `json:"poster"`
	Duration   *string            `json:"duration"`
	Categories *[]json.RawMessage `json:"categories"`
	Cast       *[]json.RawMessage `json:"cast"`
}

type wireCast struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
	Bio   *string `json:"bio"`
	Type  *string `json:"type"`
}

const (
	reasonMissing = "missing required field"
	reasonNull    = "expected string, got null"
)

// Decode parses a feed document into sections. Decoding is all-or-nothing:
// any error returns a nil slice and a *errors.DecodeError.
func Decode(raw []byte) ([]Section, error) {
	var doc *[]json.RawMessage
	if err := unmarshalAt("", raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, marqueeerrors.NewDecodeError("", "expected an array of sections, got null")
	}

	sections := make([]Section, 0, len(*doc))
	for i, item := range *doc {
		s, err := convertSection(fmt.Sprintf("[%d]", i), item)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader) ([]Section, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return Decode(buf.Bytes())
}

func convertSection(path string, raw json.RawMessage) (Section, error) {
	var ws wireSection
	if err := unmarshalAt(path, raw, &ws); err != nil {
		return Section{}, err
	}
	if ws.Title == nil {
		return Section{}, marqueeerrors.NewDecodeError(path+".title", reasonMissing)
	}
	if ws.Children == nil {
		return Section{}, marqueeerrors.NewDecodeError(path+".children", reasonMissing)
	}

	movies := make([]Movie, 0, len(*ws.Children))
	for j, item := range *ws.Children {
		m, err := convertMovie(fmt.Sprintf("%s.children[%d]", path, j), item)
		if err != nil {
			return Section{}, err
		}
		movies = append(movies, m)
	}
	return Section{Title: *ws.Title, Children: movies}, nil
}

func convertMovie(path string, raw json.RawMessage) (Movie, error) {
	var wm wireMovie
	if err := unmarshalAt(path, raw, &wm); err != nil {
		return Movie{}, err
	}
	switch {
	case wm.Title == nil:
		return Movie{}, marqueeerrors.NewDecodeError(path+".title", reasonMissing)
	case wm.Duration == nil:
		return Movie{}, marqueeerrors.NewDecodeError(path+".duration", reasonMissing)
	case wm.Categories == nil:
		return Movie{}, marqueeerrors.NewDecodeError(path+".categories", reasonMissing)
	case wm.Cast == nil:
		return Movie{}, marqueeerrors.NewDecodeError(path+".cast", reasonMissing)
	}

	poster, err := optionalURL(path+".poster", wm.Poster)
	if err != nil {
		return Movie{}, err
	}
	banner, err := optionalURL(path+".banner", wm.Banner)
	if err != nil {
		return Movie{}, err
	}

	categories := make([]string, 0, len(*wm.Categories))
	for k, item := range *wm.Categories {
		catPath := fmt.Sprintf("%s.categories[%d]", path, k)
		var category *string
		if err := unmarshalAt(catPath, item, &category); err != nil {
			return Movie{}, err
		}
		if category == nil {
			return Movie{}, marqueeerrors.NewDecodeError(catPath, reasonNull)
		}
		categories = append(categories, *category)
	}

	cast := make([]Cast, 0, len(*wm.Cast))
	for k, item := range *wm.Cast {
		c, err := convertCast(fmt.Sprintf("%s.cast[%d]", path, k), item)
		if err != nil {
			return Movie{}, err
		}
		cast = append(cast, c)
	}

	return Movie{
		Title:      *wm.Title,
		Poster:     poster,
		Banner:     banner,
		Duration:   *wm.Duration,
		Categories: categories,
		Cast:       cast,
	}, nil
}

func convertCast(path string, raw json.RawMessage) (Cast, error) {
	var wc wireCast
	if err := unmarshalAt(path, raw, &wc); err != nil {
		return Cast{}, err
	}
	switch {
	case wc.Name == nil:
		return Cast{}, marqueeerrors.NewDecodeError(path+".name", reasonMissing)
	case wc.Image == nil:
		return Cast{}, marqueeerrors.NewDecodeError(path+".image", reasonMissing)
	case wc.Bio == nil:
		return Cast{}, marqueeerrors.NewDecodeError(path+".bio", reasonMissing)
	case wc.Type == nil:
		return Cast{}, marqueeerrors.NewDecodeError(path+".type", reasonMissing)
	}
	if err := validateURL(path+".image", *wc.Image); err != nil {
		return Cast{}, err
	}
	return Cast{Name: *wc.Name, Image: *wc.Image, Bio: *wc.Bio, Type: *wc.Type}, nil
}

// optionalURL treats both an absent field and an empty string as "no artwork".
func optionalURL(path string, v *string) (string, error) {
	if v == nil || *v == "" {
		return "", nil
	}
	if err := validateURL(path, *v); err != nil {
		return "", err
	}
	return *v, nil
}

func validateURL(path, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return marqueeerrors.NewDecodeError(path, fmt.Sprintf("invalid URL %q", raw))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return marqueeerrors.NewDecodeError(path, fmt.Sprintf("expected an absolute http(s) URL, got %q", raw))
	}
	return nil
}

// unmarshalAt decodes raw into v, reporting failures relative to path.
func unmarshalAt(path string, raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return marqueeerrors.NewDecodeError(path, fmt.Sprintf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset))
	case errors.As(err, &typeErr):
		return marqueeerrors.NewDecodeError(joinPath(path, typeErr.Field), fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	default:
		return marqueeerrors.NewDecodeError(path, err.Error())
	}
}

func joinPath(path, field string) string {
	switch {
	case field == "":
		return path
	case path == "":
		return field
	}
	return path + "." + field
}
