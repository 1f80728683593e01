package handler

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

// Province API endpoints tried in order. The open data mirrors go down
// now and then, so each request walks the list and settles for the first
// answer.
var provinceBaseURLs = []string{
	"https://provinces.open-api.vn/api",
	"https://open.oapi.vn/api",
}

// LocationHandler proxies the public Vietnamese administrative-unit API so
// the front-end never talks to it directly (and so responses can sit
// behind the shared response cache).
type LocationHandler struct {
	Client *http.Client
}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{Client: &http.Client{Timeout: 8 * time.Second}}
}

// Provinces returns the province list with districts included.
func (h *LocationHandler) Provinces(c echo.Context) error {
	urls := make([]string, 0, len(provinceBaseURLs)*2)
	for _, base := range provinceBaseURLs {
		urls = append(urls, base+"/?depth=2", base+"/")
	}
	return h.proxyFirst(c, urls)
}

// Districts returns one province with its districts.
func (h *LocationHandler) Districts(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing province code"})
	}
	urls := make([]string, 0, len(provinceBaseURLs))
	for _, base := range provinceBaseURLs {
		urls = append(urls, base+"/p/"+url.PathEscape(code)+"?depth=2")
	}
	return h.proxyFirst(c, urls)
}

// proxyFirst relays the body of the first upstream URL that answers with
// 200. When every mirror fails the handler degrades to an empty list
// rather than erroring, so address pickers keep rendering.
func (h *LocationHandler) proxyFirst(c echo.Context, urls []string) error {
	for _, u := range urls {
		req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, u, nil)
		if err != nil {
			continue
		}
		resp, err := h.Client.Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			continue
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
	}
	return c.JSON(http.StatusOK, []interface{}{})
}
