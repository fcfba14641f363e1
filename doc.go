// Package main provides the entry point of LocalBlog-Admin, a dashboard generating local SEO
// blog posts for client businesses. It serves a Fiber web interface and a small JSON api,
// keeps clients, blogs and settings in a gorm database, asks an OpenAI compatible or
// Anthropic provider for the posts and forwards finished posts to a webhook.
package main
