package syncer

import "os"

// ShowHelp prints usage information for the sync tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Tasting Sync Tool
=================

Uploads the local tasting history to the remote backend.

Usage:
  tasting-sync [options]

Options:
  -email string
        Backend account (default $TASTING_SYNC_EMAIL)
  -password string
        Backend password (default $TASTING_SYNC_PASSWORD)
  -dry-run
        Count the records that would be uploaded
  -verbose
        Log every uploaded record
  -help
        Show this help message

Storage and backend URL come from the service configuration
(TASTING_CONFIG, TASTING_STORAGE_DRIVER, TASTING_REMOTE_BASE_URL, ...).
A .env file in the working directory is loaded first.

Examples:
  # Upload with a stored session
  tasting-sync

  # Log in and upload
  tasting-sync -email arbitre@example.fr -password secret

  # See what is pending
  tasting-sync -dry-run
`)
}
