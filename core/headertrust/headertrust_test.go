package headertrust_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authkit/core/headertrust"
)

func TestPartition_StripsForgedInternalHeaders(t *testing.T) {
	t.Parallel()

	original := http.Header{}
	original.Set("Accept", "text/html")
	original.Set("X-Workos-Session", "forged")
	original.Set("x-workos-middleware", "true")
	original.Set("X-Workos-Anything", "forged")
	original.Set("X-Url", "https://evil.example")
	original.Set("X-Sign-Up-Paths", "/forged")

	internal := http.Header{}
	internal.Set(headertrust.HeaderSession, "real")
	internal.Set(headertrust.HeaderMiddleware, "true")
	internal.Set(headertrust.HeaderURL, "https://app.example/dashboard")

	res := headertrust.Partition(original, internal)

	assert.Equal(t, []string{"real"}, res.Request.Values("X-Workos-Session"))
	assert.Equal(t, []string{"true"}, res.Request.Values("X-Workos-Middleware"))
	assert.Equal(t, []string{"https://app.example/dashboard"}, res.Request.Values("X-Url"))
	assert.Empty(t, res.Request.Values("X-Workos-Anything"))
	assert.Empty(t, res.Request.Values("X-Sign-Up-Paths"))
	assert.Equal(t, "text/html", res.Request.Get("Accept"))

	// Nothing internal leaks to the browser.
	for name := range res.Response {
		assert.False(t, headertrust.IsReserved(name), name)
	}

	// The original header map is left untouched.
	assert.Equal(t, "forged", original.Get("X-Workos-Session"))
}

func TestPartition_ForgedSessionWithoutInternalValue(t *testing.T) {
	t.Parallel()

	original := http.Header{}
	original.Set("X-Workos-Session", "forged")

	res := headertrust.Partition(original, http.Header{})
	assert.Empty(t, res.Request.Values("X-Workos-Session"))
}

func TestPartition_ResponseAllowList(t *testing.T) {
	t.Parallel()

	internal := http.Header{}
	internal.Add("Set-Cookie", "a=1; Path=/")
	internal.Add("Set-Cookie", "b=2; Path=/")
	internal.Add("Link", "</a>; rel=preload")
	internal.Add("Link", "</b>; rel=preload")
	internal.Set("Www-Authenticate", "Bearer")
	internal.Set("X-Middleware-Cache", "no-cache")
	internal.Set("Location", "https://evil.example")
	internal.Set("X-Powered-By", "secret")
	internal.Set("Content-Type", "text/plain")

	res := headertrust.Partition(http.Header{}, internal)

	assert.Equal(t, []string{"a=1; Path=/", "b=2; Path=/"}, res.Response.Values("Set-Cookie"))
	assert.Equal(t, []string{"</a>; rel=preload", "</b>; rel=preload"}, res.Response.Values("Link"))
	assert.Equal(t, "Bearer", res.Response.Get("Www-Authenticate"))
	assert.Equal(t, "no-cache", res.Response.Get("X-Middleware-Cache"))
	assert.Empty(t, res.Response.Get("Location"))
	assert.Empty(t, res.Response.Get("X-Powered-By"))
	assert.Empty(t, res.Response.Get("Content-Type"))

	// Location is not forwarded downstream either.
	assert.Empty(t, res.Request.Get("Location"))
}

func TestPartition_CacheControl(t *testing.T) {
	t.Parallel()

	t.Run("no-store injected with cookies", func(t *testing.T) {
		internal := http.Header{}
		internal.Add("Set-Cookie", "s=1")

		res := headertrust.Partition(http.Header{}, internal)
		assert.Equal(t, "no-store", res.Response.Get("Cache-Control"))
	})

	t.Run("explicit policy kept", func(t *testing.T) {
		internal := http.Header{}
		internal.Add("Set-Cookie", "s=1")
		internal.Set("Cache-Control", "private, max-age=0")

		res := headertrust.Partition(http.Header{}, internal)
		assert.Equal(t, "private, max-age=0", res.Response.Get("Cache-Control"))
	})

	t.Run("nothing without cookies", func(t *testing.T) {
		res := headertrust.Partition(http.Header{}, http.Header{})
		assert.Empty(t, res.Response.Get("Cache-Control"))
	})
}

func TestMergeVary(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Add("Vary", "Accept-Encoding, Cookie")
	headertrust.MergeVary(h, "cookie", "RSC, Accept-Encoding", "Next-Router-State-Tree")

	assert.Equal(t, []string{"Accept-Encoding, Cookie, RSC, Next-Router-State-Tree"}, h.Values("Vary"))

	empty := http.Header{}
	headertrust.MergeVary(empty)
	assert.Empty(t, empty.Values("Vary"))
}

func TestApply(t *testing.T) {
	t.Parallel()

	dst := http.Header{}
	dst.Add("Set-Cookie", "existing=1")
	dst.Set("Vary", "Accept")
	dst.Set("Cache-Control", "public")

	resp := http.Header{}
	resp.Add("Set-Cookie", "wos-session=abc")
	resp.Set("Vary", "Cookie, accept")
	resp.Set("Cache-Control", "no-store")

	headertrust.Apply(dst, resp)

	assert.Equal(t, []string{"existing=1", "wos-session=abc"}, dst.Values("Set-Cookie"))
	assert.Equal(t, "Accept, Cookie", dst.Get("Vary"))
	assert.Equal(t, "no-store", dst.Get("Cache-Control"))
}

func TestIsReserved(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"x-workos-session", "X-WORKOS-MIDDLEWARE", "x-url", "X-Redirect-URI", "x-sign-up-paths", "x-workos-custom"} {
		assert.True(t, headertrust.IsReserved(name), name)
	}
	for _, name := range []string{"Cookie", "X-Request-ID", "Authorization", "X-Workos"} {
		assert.False(t, headertrust.IsReserved(name), name)
	}
}
