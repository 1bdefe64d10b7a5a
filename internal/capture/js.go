package capture

import "encoding/json"

// foundCanvasSlot is where a successful search parks the live canvas so the
// export evaluation can reach the exact same element.
const foundCanvasSlot = "window.__sfFoundCanvas"

// jsSearchBody performs one search pass over the three candidate locations in
// strict priority order: the shadow root captured by the attachShadow hook,
// the embed's own shadowRoot, then the full document. The `.stage` canvas is
// preferred at every location.
const jsSearchBody = `
var selectorsToTry = [];
if (SELECTOR) { selectorsToTry.push(SELECTOR); }
if (window.__SMARTFRAME_TARGET_IMAGE_ID) {
  selectorsToTry.push('smartframe-embed[image-id="' + window.__SMARTFRAME_TARGET_IMAGE_ID + '"]');
}
selectorsToTry.push('smartframe-embed:not([thumbnail-mode])');
selectorsToTry.push('smartframe-embed');

var embed = null;
for (var i = 0; i < selectorsToTry.length; i++) {
  try {
    var candidate = document.querySelector(selectorsToTry[i]);
    if (candidate) { embed = candidate; break; }
  } catch (_) {}
}

var canvas = null;
var location = "";

if (window.__smartFrameShadowRoot) {
  canvas = window.__smartFrameShadowRoot.querySelector('canvas.stage') ||
           window.__smartFrameShadowRoot.querySelector('canvas');
  if (canvas) { location = "captured-shadow-root"; }
}
if (!canvas && embed && embed.shadowRoot) {
  canvas = embed.shadowRoot.querySelector('canvas.stage') ||
           embed.shadowRoot.querySelector('canvas');
  if (canvas) { location = "direct-shadow-root"; }
}
if (!canvas) {
  canvas = document.querySelector('canvas.stage') ||
           document.querySelector('canvas[width][height]') ||
           document.querySelector('canvas');
  if (canvas) { location = "document"; }
}

if (!canvas) {
  return JSON.stringify({ok:true,data:{found:false,embed_present:Boolean(embed)}});
}
window.__sfFoundCanvas = canvas;
return JSON.stringify({ok:true,data:{found:true,width:canvas.width,height:canvas.height,location:location,embed_present:Boolean(embed)}});
`

// jsExportBody exports the staged canvas by borrowing toDataURL from a fresh
// canvas and invoking it with `this` bound to the found canvas. This exact
// call shape is what sidesteps the tainted-canvas export block and must not
// be restructured.
const jsExportBody = `
var canvas = window.__sfFoundCanvas;
if (!canvas) {
  return JSON.stringify({ok:false,error_code:"` + CodeExportFailure + `",error_message:"no canvas staged for export"});
}
var tempCanvas = document.createElement("canvas");
tempCanvas.width = canvas.width || 1920;
tempCanvas.height = canvas.height || 1080;
var dataUrl = tempCanvas.toDataURL.call(canvas, 'image/png');
window.__sfFoundCanvas = null;
return JSON.stringify({ok:true,data:{data_url:dataUrl,width:canvas.width,height:canvas.height}});
`

// searchResult mirrors the search evaluation's data payload.
type searchResult struct {
	Found        bool   `json:"found"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Location     string `json:"location"`
	EmbedPresent bool   `json:"embed_present"`
}

type exportResult struct {
	DataURL string `json:"data_url"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SearchScript builds one wrapped search evaluation for the given embed
// selector. An empty selector falls back to the page-global defaults.
func SearchScript(selector string) string {
	return WrapEval("var SELECTOR = " + JSString(selector) + ";" + jsSearchBody)
}

// ExportScript builds the wrapped export evaluation for the staged canvas.
func ExportScript() string {
	return WrapEval(jsExportBody)
}

// JSString encodes v as a JS string literal.
func JSString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// JSValue encodes v as a JS literal.
func JSValue(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func buildIIFE(async bool, body string) string {
	prefix := "(function(){\n"
	if async {
		prefix = "(async function(){\n"
	}
	return prefix + `try {
` + body + `
} catch (err) {
return JSON.stringify({ok:false,error_code:"` + CodeEvalFailure + `",error_message:String(err && err.message || err)});
}
})()`
}

// WrapEval wraps a JS body in the try/catch envelope IIFE.
func WrapEval(body string) string { return buildIIFE(false, body) }

// WrapEvalAsync is WrapEval for bodies that use await.
func WrapEvalAsync(body string) string { return buildIIFE(true, body) }
