package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
)

// compiledPage is parsed at init time to fail fast on template errors.
var compiledPage = template.Must(template.New("page").Parse(pageTemplate))

// CytoscapeCDN is where the page loads Cytoscape.js from.
const CytoscapeCDN = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"

// PNGFileName is the name the graph image is downloaded as.
const PNGFileName = "wiki-exploration-graph.png"

// PageOptions configures the explorer page.
type PageOptions struct {
	Title     string
	Layout    string // "cose", "breadthfirst", "circle" or "grid"
	EventsURL string
	StreamURL string
	Limit     int
}

// DefaultPageOptions returns the options the server uses.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Title:     "Wiki Explorer",
		Layout:    "cose",
		EventsURL: "/v1/events",
		StreamURL: "/v1/stream",
		Limit:     topic.DefaultLimit,
	}
}

type pageData struct {
	PageOptions
	ScriptSrc   string
	PNGFile     string
	Preferences []string
}

func validateLayout(layout string) error {
	switch layout {
	case "cose", "breadthfirst", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be cose, breadthfirst, circle, or grid", layout)
	}
}

// WritePage renders the explorer page to w.
func WritePage(w io.Writer, opts PageOptions) error {
	if err := validateLayout(opts.Layout); err != nil {
		return err
	}
	prefs := make([]string, len(topic.Preferences))
	for i, p := range topic.Preferences {
		prefs[i] = string(p)
	}
	data := pageData{
		PageOptions: opts,
		ScriptSrc:   CytoscapeCDN,
		PNGFile:     PNGFileName,
		Preferences: prefs,
	}

	// Render to a buffer so a template failure never leaves a partial page.
	var buf bytes.Buffer
	if err := compiledPage.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <script src="{{.ScriptSrc}}"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      display: grid;
      grid-template-columns: minmax(280px, 1fr) 2fr;
      height: 100vh;
      color: #222;
    }
    #panel { padding: 16px; overflow-y: auto; border-right: 1px solid #ddd; }
    #explorationGraph { width: 100%; height: 100%; }
    .row { display: flex; gap: 8px; align-items: center; margin-bottom: 12px; }
    .hidden { visibility: hidden; }
    #topicText { margin: 8px 0; }
    #subtopicContainer p { margin: 4px 0; cursor: pointer; color: #0645ad; }
    #subtopicContainer p:hover { text-decoration: underline; }
    #loading { color: #666; font-style: italic; }
    #error { color: #b00020; }
    button { cursor: pointer; }
    button:disabled { cursor: default; }
  </style>
</head>
<body>
  <div id="panel">
    <div class="row">
      <input id="inputTopic" type="text" placeholder="Enter a topic" autofocus>
      <button id="btnExplore">Explore</button>
    </div>
    <div class="row">
      <button id="btnBack" disabled>&larr; Back</button>
      <button id="btnFwd" disabled>Forward &rarr;</button>
      <button id="btnDL">Download graph</button>
    </div>
    <div class="row">
      <label for="limit">Subtopics shown</label>
      <input id="limit" type="number" min="1" value="{{.Limit}}">
      <select id="order" class="hidden">
        {{range .Preferences}}<option value="{{.}}">{{.}}</option>
        {{end}}
      </select>
    </div>
    <div id="stps" class="hidden"><span id="stepsAway">0</span> steps away from the first topic</div>
    <div id="loading" class="hidden">Loading&hellip;</div>
    <div id="error"></div>
    <div id="topicContainer" class="hidden">
      <h2 id="topicText"></h2>
      <div id="subtopicContainer"></div>
    </div>
  </div>
  <div id="explorationGraph"></div>
  <script>
    const eventsURL = {{.EventsURL}};
    const streamURL = {{.StreamURL}};
    const layoutName = {{.Layout}};
    const pngFile = {{.PNGFile}};

    const $ = (id) => document.getElementById(id);
    const setVisible = (el, on) => el.classList.toggle("hidden", !on);

    const cy = cytoscape({
      container: $("explorationGraph"),
      style: [
        { selector: "node", style: { "label": "data(label)", "background-color": "data(color)", "font-size": 10 } },
        { selector: "edge", style: { "width": 1, "line-color": "#999", "target-arrow-color": "#999", "target-arrow-shape": "triangle", "curve-style": "bezier" } }
      ]
    });

    const post = (ev) => {
      ev.occurred_at = new Date().toISOString();
      return fetch(eventsURL, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(ev)
      }).then((res) => res.ok ? null : res.json().then((b) => showError(b.error)))
        .catch((err) => showError(String(err)));
    };

    const showError = (msg) => { $("error").textContent = msg || ""; };

    const applyGraph = (u) => {
      if (!u) return;
      if (u.reset) cy.elements().remove();
      // An id already drawn is skipped; cytoscape rejects duplicates.
      const fresh = (el) => cy.getElementById(el.data.id).empty();
      const nodes = u.elements.nodes.filter(fresh).map((n) => ({ group: "nodes", data: n.data }));
      cy.add(nodes);
      const edges = u.elements.edges.filter(fresh)
        .filter((e) => !cy.getElementById(e.data.source).empty() && !cy.getElementById(e.data.target).empty())
        .map((e) => ({ group: "edges", data: e.data }));
      cy.add(edges);
      if (u.reset || nodes.length || edges.length) {
        cy.layout({ name: layoutName, animate: false }).run();
        cy.resize();
        cy.fit();
        cy.center();
      }
    };

    const render = (v) => {
      setVisible($("loading"), v.loading);
      setVisible($("topicContainer"), v.show_content);
      setVisible($("stps"), v.show_controls);
      setVisible($("order"), v.show_controls);
      showError(v.error);
      $("btnBack").disabled = !v.can_back;
      $("btnFwd").disabled = !v.can_forward;
      $("stepsAway").textContent = String(v.steps_away);
      $("topicText").textContent = v.heading || "";
      $("order").value = v.preference;
      if (document.activeElement !== $("limit")) $("limit").value = v.limit;

      const box = $("subtopicContainer");
      box.innerHTML = "";
      for (const s of v.subtopics) {
        const p = document.createElement("p");
        p.id = s.key;
        p.textContent = s.text;
        p.addEventListener("click", () => post({ type: "subtopic_click", topic_index: s.topic_index, subtopic: s.text }));
        box.appendChild(p);
      }
      applyGraph(v.graph);
    };

    const submitTopic = (ev) => {
      post(ev);
      $("inputTopic").value = "";
    };
    $("btnExplore").addEventListener("click", () => submitTopic({ type: "submit_topic", query: $("inputTopic").value }));
    $("inputTopic").addEventListener("keydown", (e) => {
      if (e.key === "Enter") submitTopic({ type: "key_submit", key: e.key, query: $("inputTopic").value });
    });
    $("btnBack").addEventListener("click", () => post({ type: "navigate_back" }));
    $("btnFwd").addEventListener("click", () => post({ type: "navigate_forward" }));
    $("limit").addEventListener("change", (e) => post({ type: "change_limit", value: e.target.value }));
    $("order").addEventListener("change", (e) => post({ type: "change_preference", value: e.target.value }));

    $("btnDL").addEventListener("click", () => {
      const link = document.createElement("a");
      link.href = cy.png({ bg: "#ffffff", full: true });
      link.download = pngFile;
      document.body.appendChild(link);
      link.click();
      document.body.removeChild(link);
    });

    // A reconnect gets a full graph again, so the drawing never drifts.
    const stream = new EventSource(streamURL);
    stream.addEventListener("view", (e) => render(JSON.parse(e.data)));
    stream.onerror = () => showError("connection lost, reconnecting");
  </script>
</body>
</html>
`
