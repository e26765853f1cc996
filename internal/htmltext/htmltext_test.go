package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip_BasicMarkup(t *testing.T) {
	in := `<p>Hello <b>world</b></p><p>Second paragraph</p>`
	out := Strip(in)

	assert.Contains(t, out, "Hello world")
	assert.Contains(t, out, "Second paragraph")
	assert.NotContains(t, out, "<p>")
}

func TestStrip_RemovesNonContent(t *testing.T) {
	in := `<html><head><title>t</title></head><body>
<script>var x = 1;</script>
<style>.a { color: red }</style>
<nav>menu</nav>
<p>visible</p>
<footer>footer text</footer>
</body></html>`

	out := Strip(in)
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "var x")
	assert.NotContains(t, out, "color: red")
	assert.NotContains(t, out, "menu")
	assert.NotContains(t, out, "footer text")
}

func TestStrip_DecodesEntities(t *testing.T) {
	out := Strip("<p>a &amp; b &lt;c&gt;</p>")
	assert.Equal(t, "a & b <c>", out)
}

func TestStripWithoutCode(t *testing.T) {
	in := `<p>Use the retry helper:</p><pre><code>client.Do(req)</code></pre><p>as shown above.</p>`

	out := StripWithoutCode(in)
	assert.Contains(t, out, "Use the retry helper:")
	assert.Contains(t, out, "as shown above.")
	assert.NotContains(t, out, "client.Do")

	// Plain Strip keeps the code text
	kept := Strip(in)
	assert.Contains(t, kept, "client.Do(req)")
}

func TestStrip_CollapsesWhitespace(t *testing.T) {
	out := Strip("<p>a</p>\n\n\n\n<p>b    c</p>")
	assert.False(t, strings.Contains(out, "  "), "spaces should collapse: %q", out)
	assert.NotContains(t, out, "\n\n\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héllo", Truncate("héllo", 5), "rune-aware length")
	assert.Equal(t, "abcdef", Truncate("abcdef", 0), "non-positive n disables truncation")
}
