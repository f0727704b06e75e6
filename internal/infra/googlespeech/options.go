package googlespeech

import (
	"time"

	"google.golang.org/api/option"

	"voice-chat/internal/infra"
)

type Options struct {
	// CredentialsFile is a service account JSON key. Empty means
	// application default credentials.
	CredentialsFile string
	Language        string
	Timeout         time.Duration
}

func (o Options) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if o.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}
	return opts
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return infra.DefaultTimeout
	}
	return o.Timeout
}
