package browser

import (
	"encoding/json"
	"fmt"

	"zillow-save-ratio/models"
)

// Results reported by dockScript.
const (
	dockDocked  = "docked"
	dockAbsent  = "absent"
	dockMissing = "missing"
)

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsStrings(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

const snapshotScript = `document.documentElement.outerHTML`

func insertScript(b *models.Badge) string {
	return fmt.Sprintf(`(function() {
	var old = document.getElementById(%[1]s);
	if (old) old.remove();
	var badge = document.createElement("div");
	badge.id = %[1]s;
	badge.innerHTML = %[2]s;
	badge.style.cssText = %[3]s;
	document.body.appendChild(badge);
	return true;
})()`, jsString(b.ID), jsString(b.InnerHTML()), jsString(b.FloatingStyle()))
}

func dockScript(b *models.Badge, targets []string) string {
	return fmt.Sprintf(`(function() {
	var badge = document.getElementById(%[1]s);
	if (!badge) return %[4]s;
	var targets = %[2]s;
	for (var i = 0; i < targets.length; i++) {
		var sidebar = document.querySelector(targets[i]);
		if (sidebar) {
			badge.style.cssText = %[3]s;
			sidebar.prepend(badge);
			return %[5]s;
		}
	}
	return %[6]s;
})()`, jsString(b.ID), jsStrings(targets), jsString(b.DockedStyle()),
		jsString(dockMissing), jsString(dockDocked), jsString(dockAbsent))
}

func removeScript(id string) string {
	return fmt.Sprintf(`(function() {
	var badge = document.getElementById(%s);
	if (!badge) return false;
	badge.remove();
	return true;
})()`, jsString(id))
}
