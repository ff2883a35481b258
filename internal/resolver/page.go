package resolver

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
{{- if .ImageURL}}
    <meta property="og:image" content="{{.ImageURL}}">
{{- end}}
    <meta property="og:type" content="website">
    <meta property="og:url" content="{{.CanonicalURL}}">
    <meta name="twitter:card" content="{{if .ImageURL}}summary_large_image{{else}}summary{{end}}">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">
{{- if .ImageURL}}
    <meta name="twitter:image" content="{{.ImageURL}}">
{{- end}}
    <link rel="canonical" href="{{.CanonicalURL}}">
{{- if .Redirect}}
    <meta http-equiv="refresh" content="{{.RefreshContent}}">
    <script>window.setTimeout(function () { window.location.replace({{.Destination}}); }, {{.DelayMillis}});</script>
{{- end}}
</head>
<body style="font-family:sans-serif;text-align:center;padding-top:50px;">
    <h1>{{.Title}}</h1>
{{- if .Description}}
    <p>{{.Description}}</p>
{{- end}}
{{- if .Redirect}}
    <p>Redirecting you now...</p>
{{- end}}
    <p>Destination: <a href="{{.Destination}}">{{.Destination}}</a></p>
</body>
</html>
`))

type pageData struct {
	Title        string
	Description  string
	ImageURL     string
	CanonicalURL string
	Destination  string
	Redirect     bool
	Delay        time.Duration
}

// DelaySeconds is the redirect delay in whole seconds. Meta refresh cannot
// express fractions, so the script uses the same rounded value.
func (d pageData) DelaySeconds() int64 {
	return int64(d.Delay.Round(time.Second) / time.Second)
}

// RefreshContent is the meta refresh value.
func (d pageData) RefreshContent() string {
	return fmt.Sprintf("%d;url=%s", d.DelaySeconds(), d.Destination)
}

func (d pageData) DelayMillis() int64 {
	return d.DelaySeconds() * 1000
}

func renderPage(data pageData) (string, error) {
	const op = "resolver.renderPage"

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%s: failed to execute template: %w", op, err)
	}

	return buf.String(), nil
}
