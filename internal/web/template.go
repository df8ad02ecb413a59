package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"rfc3339": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Info.Label}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
</style>
</head>
<body>
<h1>{{.Info.Label}}</h1>

<h2>State</h2>
<table>
<tr><th>Button</th><td class="{{if eq .State "PRESSED"}}pressed{{else}}released{{end}}">{{.State}}</td></tr>
<tr><th>Last event</th><td>{{rfc3339 .Metrics.LastEvent}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<h2>Counters</h2>
<table>
<tr><th>Raw edges</th><td>{{.Metrics.RawEdges}}</td></tr>
<tr><th>Settle runs</th><td>{{.Metrics.SettleRuns}}</td></tr>
<tr><th>Confirmed transitions</th><td>{{.Metrics.Transitions}}</td></tr>
<tr><th>Read errors</th><td>{{.Metrics.ReadErrors}}</td></tr>
<tr><th>Sink errors</th><td>{{.Metrics.SinkErrors}}</td></tr>
</table>

<h2>Config</h2>
<table>
<tr><th>Debounce</th><td>{{.Info.DebounceMs}} ms</td></tr>
<tr><th>Broker</th><td>{{.Info.Broker}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, v view) {
	if err := indexTmpl.Execute(w, v); err != nil {
		log.Printf("web: render template: %v", err)
	}
}
