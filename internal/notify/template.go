package notify

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Subject}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }
    .container {
      max-width: 560px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }
    .header {
      padding: 20px 24px;
      background: #0f766e;
      color: #ffffff;
      font-size: 18px;
      font-weight: 700;
    }
    .item {
      padding: 12px 24px;
      border-top: 1px solid #f3f4f6;
    }
    .sev-high { border-left: 4px solid #dc2626; }
    .sev-med { border-left: 4px solid #f59e0b; }
    .sev-low { border-left: 4px solid #10b981; }
    .calm, .partial {
      padding: 16px 24px;
      color: #6b7280;
      font-size: 14px;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.Subject}}</div>
    {{- range .Insights}}
    <div class="item sev-{{.Severity}}">{{icon .Type}} {{.Message}}</div>
    {{- else}}
    <div class="calm">Tidak ada yang perlu diperhatikan hari ini.</div>
    {{- end}}
    {{- if .Partial}}
    <div class="partial">Data belum lengkap (gagal: {{range $i, $f := .Failed}}{{if $i}}, {{end}}{{$f}}{{end}}).</div>
    {{- end}}
  </div>
</body>
</html>
`
