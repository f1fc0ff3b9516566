package internal

import (
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// ForwardSDKLogs sends Azure SDK pipeline and credential events to l at debug level.
// The SDK listener is process wide; the returned func removes it.
func ForwardSDKLogs(l log.Logger) func() {
	azlog.SetEvents(
		azlog.EventRequest,
		azlog.EventResponse,
		azlog.EventResponseError,
		azlog.EventRetryPolicy,
		azidentity.EventAuthentication,
	)
	azlog.SetListener(func(e azlog.Event, msg string) {
		level.Debug(l).Log("msg", msg, "event", string(e))
	})

	return func() {
		azlog.SetListener(nil)
	}
}
