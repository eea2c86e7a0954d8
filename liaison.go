// Package liaison embeds the assets shared by the binaries: SQL migrations and email templates.
package liaison

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS

//go:embed templates/emails
var EmailFS embed.FS
