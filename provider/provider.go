package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/cache"
	"github.com/goliatone/go-qcgrader/internal/logging"
)

// JobKeyNamespace prefixes job cache keys.
const JobKeyNamespace = "job"

// Provider is an authenticated handle on one project of the service.
type Provider struct {
	account Account
	client  *Client
	session Session
	jobs    cache.CacheService
	keys    cache.KeySerializer
	logger  *slog.Logger
}

type options struct {
	httpClient *http.Client
	jobs       cache.CacheService
	keys       cache.KeySerializer
	logger     *slog.Logger
}

// Option configures a Provider.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithJobCache sets the cache used by RetrieveJob. The default is a bounded
// sturdyc cache.
func WithJobCache(svc cache.CacheService) Option {
	return func(o *options) { o.jobs = svc }
}

// WithKeySerializer overrides the default key serializer.
func WithKeySerializer(ks cache.KeySerializer) Option {
	return func(o *options) { o.keys = ks }
}

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New validates acct and logs in.
func New(ctx context.Context, acct Account, opts ...Option) (*Provider, error) {
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: acct.Timeout}
	}
	if o.keys == nil {
		o.keys = cache.NewDefaultKeySerializer()
	}
	if o.jobs == nil {
		svc, err := cache.NewCacheService(cache.DefaultBoundedConfig())
		if err != nil {
			return nil, err
		}
		o.jobs = svc
	}
	logger := logging.OrDiscard(o.logger).With("hub", acct.Hub, "group", acct.Group, "project", acct.Project)

	client := NewClient(acct.URL, o.httpClient, logger)
	session, err := client.Login(ctx, acct.Token)
	if err != nil {
		return nil, err
	}

	return &Provider{
		account: acct,
		client:  client,
		session: session,
		jobs:    o.jobs,
		keys:    o.keys,
		logger:  logger,
	}, nil
}

// Account returns the account the provider was created with.
func (p *Provider) Account() Account {
	return p.account
}

// Session returns the login session.
func (p *Provider) Session() Session {
	return p.session
}

func (p *Provider) jobPath(id string) string {
	return fmt.Sprintf("/Network/%s/Groups/%s/Projects/%s/Jobs/%s",
		url.PathEscape(p.account.Hub),
		url.PathEscape(p.account.Group),
		url.PathEscape(p.account.Project),
		url.PathEscape(id),
	)
}

// RetrieveJob fetches a job by id. Results are cached; failures are not.
func (p *Provider) RetrieveJob(ctx context.Context, id string) (*Job, error) {
	if id == "" {
		return nil, goerrors.New("job id is required", goerrors.CategoryValidation)
	}

	key := p.keys.SerializeKey(JobKeyNamespace, p.account.Hub, p.account.Group, p.account.Project, id)
	return cache.GetOrFetch(ctx, p.jobs, key, func(ctx context.Context) (*Job, error) {
		var job Job
		if err := p.client.Get(ctx, p.jobPath(id)+"/v/1", &job); err != nil {
			return nil, err
		}
		if job.ID == "" {
			job.ID = id
		}
		return &job, nil
	})
}

// ForgetJob drops a cached job so the next RetrieveJob asks the service again.
func (p *Provider) ForgetJob(ctx context.Context, id string) error {
	key := p.keys.SerializeKey(JobKeyNamespace, p.account.Hub, p.account.Group, p.account.Project, id)
	return p.jobs.Delete(ctx, key)
}

// JobURLs returns the object storage URLs of the job's Qobj and result.
func (p *Provider) JobURLs(ctx context.Context, job JobRef) (download, result string, err error) {
	if job == nil || job.JobID() == "" {
		return "", "", goerrors.New("job id is required", goerrors.CategoryValidation)
	}
	base := p.jobPath(job.JobID())

	var d, r urlResponse
	if err := p.client.Get(ctx, base+"/jobDownloadUrl", &d); err != nil {
		return "", "", err
	}
	if err := p.client.Get(ctx, base+"/resultDownloadUrl", &r); err != nil {
		return "", "", err
	}
	return d.URL, r.URL, nil
}

var (
	activeMu sync.Mutex
	active   *Provider
)

// Activate makes p the process provider returned by GetProvider.
func Activate(p *Provider) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = p
}

// Deactivate clears the process provider.
func Deactivate() {
	Activate(nil)
}

// Active returns the process provider.
func Active() (*Provider, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active == nil {
		return nil, ErrNoActiveProvider
	}
	return active, nil
}

// GetProvider returns the active provider, or loads the account from the
// environment, logs in and activates the result. While bootstrapping, the
// provider logger only emits errors.
func GetProvider(ctx context.Context, opts ...Option) (*Provider, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		return active, nil
	}

	acct, err := LoadAccount()
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	base := logging.OrDiscard(o.logger)
	bootstrap := append(append([]Option{}, opts...), WithLogger(logging.WithMinLevel(base, slog.LevelError)))

	p, err := New(ctx, acct, bootstrap...)
	if err != nil {
		return nil, err
	}
	p.logger = base.With("hub", acct.Hub, "group", acct.Group, "project", acct.Project)
	p.client.logger = p.logger
	active = p
	return p, nil
}

// GetJob retrieves a job through GetProvider. Every error is logged at debug
// level and swallowed; the result is nil when the job cannot be retrieved.
func GetJob(ctx context.Context, id string, opts ...Option) *Job {
	p, err := GetProvider(ctx, opts...)
	if err != nil {
		logFailure(ctx, opts, "get job", err)
		return nil
	}
	job, err := p.RetrieveJob(ctx, id)
	if err != nil {
		p.logFailure(ctx, "get job", err)
		return nil
	}
	return job
}

// GetJobURLs is JobURLs through GetProvider. Every error is swallowed and
// reported as two empty strings.
func GetJobURLs(ctx context.Context, job JobRef, opts ...Option) (download, result string) {
	p, err := GetProvider(ctx, opts...)
	if err != nil {
		logFailure(ctx, opts, "get job urls", err)
		return "", ""
	}
	download, result, err = p.JobURLs(ctx, job)
	if err != nil {
		p.logFailure(ctx, "get job urls", err)
		return "", ""
	}
	return download, result
}

func (p *Provider) logFailure(ctx context.Context, op string, err error) {
	logError(ctx, p.logger, op, err)
}

func logFailure(ctx context.Context, opts []Option, op string, err error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logError(ctx, logging.OrDiscard(o.logger), op, err)
}

func logError(ctx context.Context, logger *slog.Logger, op string, err error) {
	attrs := append([]slog.Attr{slog.String("error", err.Error())}, goerrors.ToSlogAttributes(err)...)
	logger.LogAttrs(ctx, slog.LevelDebug, op+" failed", attrs...)
}
