package main

import "html/template"

type pageData struct {
	Tools       []string
	Tool        string
	Token       string
	IFrame      template.HTML
	Placeholder string
	Error       string
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>MCP-UI host</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; }
nav { padding: 12px 16px; border-bottom: 1px solid #ddd; }
nav a { margin-right: 12px; }
main { padding: 16px; }
.placeholder { color: #666; }
.error { color: #b00020; }
</style>
</head>
<body>
<nav>{{range .Tools}}<a href="/?tool={{.}}">{{.}}</a>{{end}}</nav>
<main>
{{- if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{- if .Placeholder}}<p class="placeholder">{{.Placeholder}}</p>{{end}}
{{- if .IFrame}}{{.IFrame}}
<script>
(function () {
  const iframe = document.querySelector("main iframe");
  const scheme = location.protocol === "https:" ? "wss://" : "ws://";
  const ws = new WebSocket(scheme + location.host + "/bridge?token={{.Token}}");
  const outbox = [];

  ws.onopen = function () {
    while (outbox.length) ws.send(outbox.shift());
  };
  ws.onmessage = function (ev) {
    const env = JSON.parse(ev.data);
    iframe.contentWindow.postMessage(env.data, "*");
  };
  window.addEventListener("message", function (ev) {
    if (ev.source !== iframe.contentWindow) return;
    const frame = JSON.stringify({ origin: ev.origin, data: ev.data });
    if (ws.readyState === WebSocket.OPEN) ws.send(frame); else outbox.push(frame);
  });
})();
</script>
{{- end}}
</main>
</body>
</html>
`))
