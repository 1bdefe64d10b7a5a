package inject

import (
	"fmt"

	"github.com/pellucid-labs/framegrab/internal/capture"
)

const (
	// BindingName is the page binding the relay world invokes to hand the
	// capture request over to the controlling process.
	BindingName = "__framegrabCapture"

	// RelayWorldName is the isolated world the relay script runs in.
	RelayWorldName = "framegrab_relay"

	// MarkerID is the DOM element carrying the capture result. The element
	// id and the data-url/data-error attributes are the wire contract the
	// orchestrator polls on; do not rename them.
	MarkerID = "extension-response-data"

	// MarkerReadySelector matches the marker only once a result attribute
	// has been set.
	MarkerReadySelector = "#" + MarkerID + "[data-url], #" + MarkerID + "[data-error]"
)

// GlobalsScript publishes the session's target selector and image id as page
// globals before any page script runs. The attachShadow hook and the canvas
// search both consult them.
func GlobalsScript(req *CaptureRequest) string {
	imageID := "null"
	if req.ImageID != "" {
		imageID = capture.JSString(req.ImageID)
	}
	return "window.__SMARTFRAME_EMBED_SELECTOR = " + capture.JSString(req.Selector) + ";\n" +
		"window.__SMARTFRAME_TARGET_IMAGE_ID = " + imageID + ";"
}

// InitializerScript builds the main-world init script: hook attachShadow to
// capture the embed's shadow root, force the embed's box to its natural (or
// a large fallback) size, dispatch a resize, and post the capture request
// after settleMS of render settling. Idempotent across all of its triggers.
func InitializerScript(settleMS int) string {
	return fmt.Sprintf(jsInitializer, settleMS)
}

const jsInitializer = `(function() {
  if (window.__smartFrameShadowRoot === undefined) { window.__smartFrameShadowRoot = null; }
  if (window.__smartFrameHostElement === undefined) { window.__smartFrameHostElement = null; }
  if (window.__SMARTFRAME_EMBED_SELECTOR === undefined) { window.__SMARTFRAME_EMBED_SELECTOR = null; }
  if (window.__SMARTFRAME_TARGET_IMAGE_ID === undefined) { window.__SMARTFRAME_TARGET_IMAGE_ID = null; }

  // Capture the embed's shadow root at attach time. Exact image-id match may
  // override an earlier first-match capture.
  var nativeAttachShadow = Element.prototype.attachShadow;
  Element.prototype.attachShadow = function(init) {
    var shadowRoot = nativeAttachShadow.call(this, init);
    if (this.tagName.toLowerCase() === 'smartframe-embed') {
      var targetSelector = window.__SMARTFRAME_EMBED_SELECTOR;
      var targetImageId = window.__SMARTFRAME_TARGET_IMAGE_ID;
      var imageId = this.getAttribute('image-id');
      var matchesImageId = Boolean(targetImageId && imageId === targetImageId);
      var matchesSelector = Boolean(targetSelector && typeof this.matches === 'function' && this.matches(targetSelector));
      if (matchesImageId || matchesSelector || window.__smartFrameShadowRoot === null) {
        window.__smartFrameShadowRoot = shadowRoot;
        window.__smartFrameHostElement = this;
        console.log('framegrab init: captured smartframe-embed shadow root.');
      }
    }
    return shadowRoot;
  };

  var embedSelector = window.__SMARTFRAME_EMBED_SELECTOR || 'smartframe-embed';
  var targetImageId = window.__SMARTFRAME_TARGET_IMAGE_ID || null;

  function resolveSmartFrameElement() {
    var selectorsToTry = [];
    if (targetImageId) {
      selectorsToTry.push('smartframe-embed[image-id="' + targetImageId + '"]');
    }
    if (embedSelector && selectorsToTry.indexOf(embedSelector) === -1) {
      selectorsToTry.push(embedSelector);
    }
    selectorsToTry.push('smartframe-embed:not([thumbnail-mode])');
    selectorsToTry.push('smartframe-embed');

    for (var i = 0; i < selectorsToTry.length; i++) {
      var selector = selectorsToTry[i];
      if (!selector) { continue; }
      try {
        var candidate = document.querySelector(selector);
        if (candidate) { return { element: candidate, selector: selector }; }
      } catch (err) {
        console.warn('framegrab init: selector threw:', selector, err);
      }
    }
    return { element: null, selector: embedSelector };
  }

  var extractionInitialized = false;

  function initSmartFrameExtraction() {
    if (extractionInitialized) { return; }

    var resolved = resolveSmartFrameElement();
    var smartFrame = resolved.element;
    if (!smartFrame) {
      console.warn('framegrab init: smartframe-embed not found on page.');
      return;
    }
    extractionInitialized = true;
    window.__SMARTFRAME_ACTIVE_SELECTOR = resolved.selector;
    window.__smartFrameHostElement = smartFrame;
    if (!window.__smartFrameShadowRoot && smartFrame.shadowRoot) {
      window.__smartFrameShadowRoot = smartFrame.shadowRoot;
    }

    // The embed renders its canvas at the size of its visible box, so the box
    // must be forced to the natural image size before capture.
    var width = smartFrame.style.getPropertyValue('--sf-original-width');
    var height = smartFrame.style.getPropertyValue('--sf-original-height');
    var widthStr = String(width || '').trim();
    var heightStr = String(height || '').trim();
    var usable = widthStr !== '' && heightStr !== '' &&
      widthStr !== '0' && widthStr !== '0px' && heightStr !== '0' && heightStr !== '0px';
    if (usable) {
      var widthValue = widthStr.slice(-2) === 'px' ? widthStr : widthStr + 'px';
      var heightValue = heightStr.slice(-2) === 'px' ? heightStr : heightStr + 'px';
      smartFrame.style.width = widthValue;
      smartFrame.style.maxWidth = widthValue;
      smartFrame.style.height = heightValue;
      smartFrame.style.maxHeight = heightValue;
      console.log('framegrab init: embed sized ' + widthValue + ' x ' + heightValue + ' from CSS vars.');
    } else {
      smartFrame.style.width = '9999px';
      smartFrame.style.maxWidth = '9999px';
      smartFrame.style.height = '9999px';
      smartFrame.style.maxHeight = '9999px';
      console.log('framegrab init: embed sized 9999px x 9999px (fixed fallback).');
    }

    window.dispatchEvent(new Event('resize'));

    // Let the embed re-render at the new dimensions before asking for pixels.
    setTimeout(function() {
      window.postMessage({
        type: 'GET_CANVAS_DATA',
        selector: resolved.selector || embedSelector
      }, window.location.origin);
    }, %d);
  }

  window.addEventListener('load', initSmartFrameExtraction);
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', initSmartFrameExtraction);
  } else {
    initSmartFrameExtraction();
  }
  setTimeout(initSmartFrameExtraction, 1000);
  setTimeout(initSmartFrameExtraction, 2000);
})();`

// RelayScript builds the isolated-world relay: it accepts the page's capture
// message only from the same origin and the same window, then forwards the
// selector through the capture binding. A relay-side failure still writes an
// error marker so the orchestrator's wait always terminates.
func RelayScript() string {
	return jsRelay
}

const jsRelay = `window.addEventListener('message', function(event) {
  if (event.origin !== window.location.origin) { return; }
  if (event.source !== window) { return; }
  if (!event.data || event.data.type !== 'GET_CANVAS_DATA') { return; }
  try {
    window.` + BindingName + `(JSON.stringify({
      selector: event.data.selector || '',
      origin: event.origin
    }));
  } catch (err) {
    var responseDiv = document.createElement('div');
    responseDiv.id = '` + MarkerID + `';
    responseDiv.style.display = 'none';
    responseDiv.setAttribute('data-error', 'Communication error: ' + String(err));
    document.body.appendChild(responseDiv);
  }
});`

// MarkerScript builds the wrapped evaluation that writes the capture result
// marker. Exactly one of dataURL and errMsg should be set; an empty result
// still produces an error marker so the wait step cannot hang.
func MarkerScript(dataURL, errMsg string) string {
	if dataURL == "" && errMsg == "" {
		errMsg = "Unknown error: No data URL returned."
	}
	attr := "data-error"
	value := errMsg
	if dataURL != "" {
		attr = "data-url"
		value = dataURL
	}
	body := `
var existing = document.getElementById('` + MarkerID + `');
if (existing) { existing.remove(); }
var responseDiv = document.createElement('div');
responseDiv.id = '` + MarkerID + `';
responseDiv.style.display = 'none';
responseDiv.setAttribute('` + attr + `', ` + capture.JSString(value) + `);
document.body.appendChild(responseDiv);
return JSON.stringify({ok:true,data:{written:true}});
`
	return capture.WrapEval(body)
}

// ResolveImageIDScript builds the wrapped evaluation that reads the embed's
// image-id attribute, trying the session selector before the generic ones.
func ResolveImageIDScript(selector string) string {
	body := `
var selectorsToTry = [` + capture.JSString(selector) + `, 'smartframe-embed:not([thumbnail-mode])', 'smartframe-embed'];
for (var i = 0; i < selectorsToTry.length; i++) {
  if (!selectorsToTry[i]) { continue; }
  var el = null;
  try { el = document.querySelector(selectorsToTry[i]); } catch (_) {}
  if (el) {
    return JSON.stringify({ok:true,data:{image_id: el.getAttribute('image-id') || ''}});
  }
}
return JSON.stringify({ok:true,data:{image_id: ''}});
`
	return capture.WrapEval(body)
}
