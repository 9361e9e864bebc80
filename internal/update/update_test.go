package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func releaseServer(t *testing.T, status int, tag string) *Checker {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/latest", func(c *gin.Context) {
		c.JSON(status, gin.H{"tag_name": tag, "html_url": "https://example.com/releases/" + tag})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL + "/latest", Client: srv.Client()}
}

func TestCheckNewer(t *testing.T) {
	c := releaseServer(t, http.StatusOK, "v1.3.0")
	res, err := c.Check(context.Background(), "v1.2.9")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected an update")
	}
	assert.Equal(t, res.LatestVersion, "1.3.0")
	assert.Equal(t, res.CurrentVersion, "1.2.9")
	assert.Equal(t, res.URL, "https://example.com/releases/v1.3.0")
}

func TestCheckUpToDate(t *testing.T) {
	for _, current := range []string{"1.3.0", "v1.4.0", "dev"} {
		c := releaseServer(t, http.StatusOK, "v1.3.0")
		res, err := c.Check(context.Background(), current)
		if err != nil {
			t.Fatal(err)
		}
		if res != nil {
			t.Errorf("current %q: unexpected update to %s", current, res.LatestVersion)
		}
	}
}

func TestCheckHTTPError(t *testing.T) {
	c := releaseServer(t, http.StatusForbidden, "")
	if _, err := c.Check(context.Background(), "1.0.0"); err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.0.1", "1.0.0", true},
		{"1.10.0", "1.9.9", true},
		{"2.0", "1.99.99", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0-rc1", "0.9.0", true},
		{"garbage", "1.0.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, newer(tt.latest, tt.current), tt.want)
	}
}
