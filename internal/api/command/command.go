package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/bytedance/sonic"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
)

// Kind names a command variant
type Kind string

const (
	KindGetCatalog         Kind = "get_catalog"
	KindRecordUsage        Kind = "record_usage"
	KindSetCategory        Kind = "set_category"
	KindAddUserCategory    Kind = "add_user_category"
	KindRemoveUserCategory Kind = "remove_user_category"
	KindAutoCategorize     Kind = "auto_categorize"
	KindGetConfig          Kind = "get_config"
	KindSaveConfig         Kind = "save_config"
	KindGetIcon            Kind = "get_icon"
	KindGetStats           Kind = "get_stats"
)

// Kinds lists every command variant.
func Kinds() []Kind {
	return []Kind{
		KindGetCatalog, KindRecordUsage, KindSetCategory, KindAddUserCategory,
		KindRemoveUserCategory, KindAutoCategorize, KindGetConfig, KindSaveConfig,
		KindGetIcon, KindGetStats,
	}
}

// Request is one of the concrete command types in this package.
type Request interface {
	Kind() Kind
	validate() error
}

// GetCatalog returns the catalog, optionally forcing discovery and narrowing
// the result.
type GetCatalog struct {
	Refresh bool `json:"refresh"`
	catalog.Query
}

// RecordUsage increments the launch count of an application.
type RecordUsage struct {
	Path string `json:"path"`
}

// SetCategory assigns (or with an empty category, clears) a category.
type SetCategory struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

// AddUserCategory registers a user category.
type AddUserCategory struct {
	Name string `json:"name"`
}

// RemoveUserCategory deletes a user category and its assignments.
type RemoveUserCategory struct {
	Name string `json:"name"`
}

// AutoCategorize runs the heuristic over the known catalog.
type AutoCategorize struct{}

// GetConfig returns the persisted record.
type GetConfig struct{}

// SaveConfig replaces the persisted record.
type SaveConfig struct {
	Config *metadata.Record `json:"config"`
}

// UnmarshalJSON fills fields absent from the sent record with their
// defaults, as loading from disk does.
func (r *SaveConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Config json.RawMessage `json:"config"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Config = nil
	if len(raw.Config) == 0 || string(raw.Config) == "null" {
		return nil
	}
	rec := metadata.Default()
	if err := sonic.Unmarshal(raw.Config, rec); err != nil {
		return err
	}
	r.Config = rec
	return nil
}

// GetIcon returns an application's icon as a data URI.
type GetIcon struct {
	Path string `json:"path"`
}

// GetStats summarizes usage.
type GetStats struct {
	Top int `json:"top"`
}

func (GetCatalog) Kind() Kind         { return KindGetCatalog }
func (RecordUsage) Kind() Kind        { return KindRecordUsage }
func (SetCategory) Kind() Kind        { return KindSetCategory }
func (AddUserCategory) Kind() Kind    { return KindAddUserCategory }
func (RemoveUserCategory) Kind() Kind { return KindRemoveUserCategory }
func (AutoCategorize) Kind() Kind     { return KindAutoCategorize }
func (GetConfig) Kind() Kind          { return KindGetConfig }
func (SaveConfig) Kind() Kind         { return KindSaveConfig }
func (GetIcon) Kind() Kind            { return KindGetIcon }
func (GetStats) Kind() Kind           { return KindGetStats }

func (r GetCatalog) validate() error {
	if !catalog.ValidSort(r.Sort) {
		return fmt.Errorf("%w: unknown sort %q", ErrInvalidArgs, r.Sort)
	}
	return nil
}

func (r RecordUsage) validate() error { return requireField("path", r.Path) }

func (r SetCategory) validate() error { return requireField("path", r.Path) }

func (r AddUserCategory) validate() error { return requireField("name", r.Name) }

func (r RemoveUserCategory) validate() error { return requireField("name", r.Name) }

func (AutoCategorize) validate() error { return nil }

func (GetConfig) validate() error { return nil }

func (r SaveConfig) validate() error {
	if r.Config == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidArgs)
	}
	return nil
}

func (r GetIcon) validate() error { return requireField("path", r.Path) }

func (r GetStats) validate() error {
	if r.Top < 0 {
		return fmt.Errorf("%w: top must not be negative", ErrInvalidArgs)
	}
	return nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgs, name)
	}
	return nil
}

// Envelope is the wire form of a command.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Command Kind            `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Decode turns an envelope into its typed request.
func Decode(env Envelope) (Request, error) {
	var req Request
	switch env.Command {
	case KindGetCatalog:
		req = decodeArgs[GetCatalog](env.Args)
	case KindRecordUsage:
		req = decodeArgs[RecordUsage](env.Args)
	case KindSetCategory:
		req = decodeArgs[SetCategory](env.Args)
	case KindAddUserCategory:
		req = decodeArgs[AddUserCategory](env.Args)
	case KindRemoveUserCategory:
		req = decodeArgs[RemoveUserCategory](env.Args)
	case KindAutoCategorize:
		req = AutoCategorize{}
	case KindGetConfig:
		req = GetConfig{}
	case KindSaveConfig:
		req = decodeArgs[SaveConfig](env.Args)
	case KindGetIcon:
		req = decodeArgs[GetIcon](env.Args)
	case KindGetStats:
		req = decodeArgs[GetStats](env.Args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Command)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: malformed args for %s", ErrInvalidArgs, env.Command)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeArgs unmarshals args into T; a nil return marks malformed input.
func decodeArgs[T Request](args json.RawMessage) Request {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v
	}
	if err := sonic.Unmarshal(args, &v); err != nil {
		return nil
	}
	return v
}
