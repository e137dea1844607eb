package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/geckocaps/capabilities"
)

const tomlCaps = `
browserName = "firefox"
acceptInsecureCerts = true

["moz:firefoxOptions"]
binary = "/opt/firefox/firefox"
args = ["-headless", "--window-size", "1280,800"]

["moz:firefoxOptions".prefs]
"dom.ipc.processCount" = 8
"browser.startup.homepage" = "about:blank"
"toolkit.telemetry.enabled" = false
"layout.css.devPixelsPerPx" = 2.0

["moz:firefoxOptions".env]
MOZ_LOG = "nsHttp:5"
MOZ_HEADLESS = "1"
`

func TestDecodeTOML_KeepsDocumentOrder(t *testing.T) {
	caps, err := decodeTOML([]byte(tomlCaps))
	require.NoError(t, err)

	assert.Equal(t, []string{"browserName", "acceptInsecureCerts", "moz:firefoxOptions"}, capabilities.Keys(caps))

	raw, ok := caps.Get("moz:firefoxOptions")
	require.True(t, ok)
	options := raw.(*capabilities.Map)
	assert.Equal(t, []string{"binary", "args", "prefs", "env"}, capabilities.Keys(options))

	args, _ := options.Get("args")
	assert.Equal(t, []any{"-headless", "--window-size", "1280,800"}, args)

	raw, _ = options.Get("prefs")
	prefs := raw.(*capabilities.Map)
	assert.Equal(t, []string{"dom.ipc.processCount", "browser.startup.homepage", "toolkit.telemetry.enabled", "layout.css.devPixelsPerPx"}, capabilities.Keys(prefs))

	count, _ := prefs.Get("dom.ipc.processCount")
	assert.Equal(t, json.Number("8"), count)
	scale, _ := prefs.Get("layout.css.devPixelsPerPx")
	assert.Equal(t, json.Number("2.0"), scale, "floats stay floats")
	telemetry, _ := prefs.Get("toolkit.telemetry.enabled")
	assert.Equal(t, false, telemetry)

	raw, _ = options.Get("env")
	assert.Equal(t, []string{"MOZ_LOG", "MOZ_HEADLESS"}, capabilities.Keys(raw.(*capabilities.Map)))
}

func TestDecodeTOML_InlineTablesAndArrays(t *testing.T) {
	caps, err := decodeTOML([]byte(`
"moz:firefoxOptions" = { log = { level = "trace" }, args = [] }
timeouts = { implicit = 0, pageLoad = 300000 }
`))
	require.NoError(t, err)

	raw, _ := caps.Get("moz:firefoxOptions")
	options := raw.(*capabilities.Map)
	rawLog, ok := options.Get("log")
	require.True(t, ok)
	level, _ := rawLog.(*capabilities.Map).Get("level")
	assert.Equal(t, "trace", level)

	args, _ := options.Get("args")
	assert.Equal(t, []any{}, args)

	raw, _ = caps.Get("timeouts")
	pageLoad, _ := raw.(*capabilities.Map).Get("pageLoad")
	assert.Equal(t, json.Number("300000"), pageLoad)
}

func TestDecodeTOML_Errors(t *testing.T) {
	_, err := decodeTOML([]byte(`browserName = `))
	assert.Error(t, err)

	_, err = decodeTOML([]byte(`["moz:firefoxOptions".prefs]
"a.b" = inf
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be represented in JSON")
}

func TestReadCapabilities(t *testing.T) {
	dir := t.TempDir()

	jsonPath := writeFile(t, dir, "caps.json", `{"browserName": "firefox", "moz:debuggerAddress": true}`)
	caps, err := readCapabilities(jsonPath, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"browserName", "moz:debuggerAddress"}, capabilities.Keys(caps))

	tomlPath := writeFile(t, dir, "caps.TOML", tomlCaps)
	caps, err = readCapabilities(tomlPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, caps.Len())

	caps, err = readCapabilities("-", strings.NewReader(`{"webSocketUrl": true}`))
	require.NoError(t, err)
	v, _ := caps.Get("webSocketUrl")
	assert.Equal(t, true, v)

	_, err = readCapabilities(writeFile(t, dir, "list.json", `[1, 2]`), nil)
	assert.Error(t, err)

	_, err = readCapabilities(dir+"/missing.json", nil)
	assert.Error(t, err)
}
