// Package forge integrates with git hosting services through their
// official CLIs. GitHub is supported via gh; the Forge interface keeps
// room for other hosts.
package forge
