/*
Package command defines the closed set of catalog commands and runs them.

Each command is a concrete request type (GetCatalog, RecordUsage, SetCategory,
AddUserCategory, RemoveUserCategory, AutoCategorize, GetConfig, SaveConfig,
GetIcon, GetStats). Transports receive an Envelope:

	{"id": "1", "command": "record_usage", "args": {"path": "/Applications/Mail.app"}}

Decode validates it into a typed Request, the Dispatcher executes it, and
Handle wraps the outcome in a Reply:

	{"id": "1", "command": "record_usage", "ok": true, "data": {"path": "...", "count": 4}}

Unknown commands, missing arguments and vanished paths come back as errors
with a code. Failed metadata writes are logged and do not fail the command.
*/
package command
