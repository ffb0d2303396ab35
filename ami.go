package ami

import (
	"github.com/voicebridge/ami/internal/config"
	"github.com/voicebridge/ami/internal/errs"
	"github.com/voicebridge/ami/internal/logging"
	"github.com/voicebridge/ami/internal/manager"
)

type (
	Client        = manager.Client
	Option        = manager.Option
	State         = manager.State
	Handler       = manager.Handler
	Action        = manager.Action
	Response      = manager.Response
	Event         = manager.Event
	Message       = manager.Message
	Field         = manager.Field
	Fields        = manager.Fields
	Future        = manager.Future
	Metrics       = manager.Metrics
	Decoder       = manager.Decoder
	ResponseError = manager.ResponseError

	Config    = config.Config
	Logger    = logging.Logger
	LogFields = logging.Fields
)

const (
	StateOpen   = manager.StateOpen
	StateEnding = manager.StateEnding
	StateClosed = manager.StateClosed

	ChanEvent = manager.ChanEvent
	ChanClose = manager.ChanClose
	ChanError = manager.ChanError
)

var (
	NewClient  = manager.NewClient
	NewAction  = manager.NewAction
	NewDecoder = manager.NewDecoder
	Classify   = manager.Classify
	NewMetrics = manager.NewMetrics

	WithLogger         = manager.WithLogger
	WithMetrics        = manager.WithMetrics
	WithTracerProvider = manager.WithTracerProvider

	NewSlogLogger = logging.NewSlogLogger
	NewNopLogger  = logging.NewNopLogger

	DefaultConfig = config.Default
	LoadConfig    = config.Load

	ErrClosed         = errs.ErrClosed
	ErrEnding         = errs.ErrEnding
	ErrActionIDInUse  = errs.ErrActionIDInUse
	ErrMissingAction  = errs.ErrMissingAction
	ErrResponse       = errs.ErrResponse
	ErrUnclassifiable = errs.ErrUnclassifiable
)
