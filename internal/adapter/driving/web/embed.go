package web

import "embed"

// StaticFS holds the embedded static assets (CSS and the CSRF helper).
//
//go:embed static/*
var StaticFS embed.FS
