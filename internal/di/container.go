package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-dyncms/internal/cascade"
	"github.com/goliatone/go-dyncms/internal/commands"
	contenttypescmd "github.com/goliatone/go-dyncms/internal/commands/contenttypes"
	markdowncmd "github.com/goliatone/go-dyncms/internal/commands/markdown"
	menuscmd "github.com/goliatone/go-dyncms/internal/commands/menus"
	recordscmd "github.com/goliatone/go-dyncms/internal/commands/records"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	dynhttp "github.com/goliatone/go-dyncms/internal/http"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/logging/console"
	"github.com/goliatone/go-dyncms/internal/logging/gologger"
	"github.com/goliatone/go-dyncms/internal/markdown"
	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/internal/notify"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/internal/replication"
	"github.com/goliatone/go-dyncms/internal/routes"
	"github.com/goliatone/go-dyncms/internal/runtimeconfig"
	"github.com/goliatone/go-dyncms/internal/settings"
	"github.com/goliatone/go-dyncms/internal/users"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/activity/usersink"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/goliatone/go-dyncms/pkg/storage"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// ErrBunDBRequired is returned when bun storage is configured without a database.
var ErrBunDBRequired = errors.New("di: bun storage requires a database (WithBunDB)")

// RoleHeader is the request header the admin and public APIs read roles from.
const RoleHeader = "X-Dyncms-Role"

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	activitySink   interfaces.ActivitySink
	activityHooks  activity.Hooks
	remote         interfaces.RemoteStore
	notifier       interfaces.Notifier
	idGenerator    identity.Generator
	clock          func() time.Time
	roleResolver   dynhttp.RoleResolver
	schemaRegistry endpoints.SchemaRegistry

	registry *fields.Registry
	renderer *markdown.Renderer
	routes   routes.Builder

	contentTypeRepo contenttypes.Repository
	recordRepo      records.Repository
	endpointRepo    endpoints.Repository
	menuRepo        menus.Repository
	userRepo        users.Repository
	settingsRepo    settings.Repository
	invalidators    []cascade.CacheInvalidator

	emitter     *activity.Emitter
	replicator  *replication.Replicator
	coordinator *cascade.Coordinator

	contentTypeSvc contenttypes.Service
	recordSvc      records.Service
	endpointSvc    endpoints.Service
	menuSvc        menus.Service
	userSvc        users.Service
	settingsSvc    settings.Service
	importer       *markdown.Importer

	startOnce sync.Once
	closeOnce sync.Once
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches every collection to bun repositories on db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the go-repository-cache service used by bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithActivitySink records activity through a go-users compatible sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithActivityHooks adds hooks next to the sink and replication hooks.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.activityHooks = append(c.activityHooks, hooks...)
	}
}

// WithRemoteStore replaces the HTTP replica built from Config.Replication.
func WithRemoteStore(remote interfaces.RemoteStore) Option {
	return func(c *Container) {
		c.remote = remote
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

func WithIDGenerator(generator identity.Generator) Option {
	return func(c *Container) {
		c.idGenerator = generator
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithRoleResolver overrides the RoleHeader based resolver of the HTTP APIs.
func WithRoleResolver(resolver dynhttp.RoleResolver) Option {
	return func(c *Container) {
		c.roleResolver = resolver
	}
}

// WithSchemaRegistry overrides the go-crud registry schemas are published to.
func WithSchemaRegistry(registry endpoints.SchemaRegistry) Option {
	return func(c *Container) {
		c.schemaRegistry = registry
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config:         cfg,
		schemaRegistry: endpoints.CRUDRegistry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureFields(); err != nil {
		return nil, err
	}
	c.configureNavigation()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureReplication()
	c.configureActivity()
	c.configureServices()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = noopProvider{}
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: logging: %w", err)
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureFields() error {
	c.registry = fields.Default()
	if !c.Config.Features.Markdown {
		return nil
	}
	c.renderer = markdown.NewRenderer(markdown.RenderOptions{})
	if err := markdown.Register(c.registry, c.renderer); err != nil {
		return fmt.Errorf("di: markdown field: %w", err)
	}
	return nil
}

func (c *Container) configureNavigation() {
	nav := c.Config.Navigation
	c.routes = routes.NewFromConfig(nav.RouteConfig, routes.Options{
		AdminGroup: strings.TrimSpace(nav.AdminGroup),
		APIGroup:   strings.TrimSpace(nav.APIGroup),
	})
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.bunDB == nil && c.Config.StorageProvider() == runtimeconfig.StorageBun {
		return ErrBunDBRequired
	}
	if c.bunDB == nil {
		c.contentTypeRepo = contenttypes.NewMemoryRepository()
		c.recordRepo = records.NewMemoryRepository()
		c.endpointRepo = endpoints.NewMemoryRepository()
		c.menuRepo = menus.NewMemoryRepository()
		c.userRepo = users.NewMemoryRepository()
		c.settingsRepo = settings.NewMemoryRepository()
		return nil
	}

	c.configureCacheDefaults()
	var (
		typeRepo     *contenttypes.BunRepository
		endpointRepo *endpoints.BunRepository
		menuRepo     *menus.BunRepository
	)
	if c.cacheService != nil {
		typeRepo = contenttypes.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		endpointRepo = endpoints.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		menuRepo = menus.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		typeRepo = contenttypes.NewBunRepository(c.bunDB)
		endpointRepo = endpoints.NewBunRepository(c.bunDB)
		menuRepo = menus.NewBunRepository(c.bunDB)
	}
	c.contentTypeRepo = typeRepo
	c.endpointRepo = endpointRepo
	c.menuRepo = menuRepo
	c.recordRepo = records.NewBunRepository(c.bunDB)
	c.userRepo = users.NewBunRepository(c.bunDB)
	c.settingsRepo = settings.NewBunRepository(c.bunDB)
	c.invalidators = []cascade.CacheInvalidator{typeRepo, endpointRepo, menuRepo}
	return nil
}

func (c *Container) configureReplication() {
	replCfg := c.Config.Replication
	if c.remote == nil {
		if !c.Config.Features.Replication || !replCfg.Enabled {
			return
		}
		c.remote = replication.NewHTTPStoreWithTimeout(replCfg.BaseURL, replCfg.Timeout)
	}
	opts := []replication.Option{replication.WithLogger(c.logger(logging.ReplicationModule))}
	if replCfg.QueueSize > 0 {
		opts = append(opts, replication.WithQueueSize(replCfg.QueueSize))
	}
	if replCfg.Timeout > 0 {
		opts = append(opts, replication.WithTimeout(replCfg.Timeout))
	}
	c.replicator = replication.New(c.remote, opts...)
}

func (c *Container) configureActivity() {
	hooks := append(activity.Hooks(nil), c.activityHooks...)
	if c.activitySink != nil {
		hooks = append(hooks, usersink.Hook{Sink: c.activitySink})
	}
	if c.replicator != nil {
		hooks = append(hooks, replication.Hook{Replicator: c.replicator})
	}
	// Replication rides on activity events, so it keeps the emitter on even
	// when the activity feature is off.
	enabled := c.Config.Features.Activity || c.replicator != nil
	c.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: enabled})
}

func (c *Container) configureServices() {
	endpointOpts := []endpoints.Option{
		endpoints.WithRoutes(c.routes),
		endpoints.WithLogger(c.logger(logging.EndpointsModule)),
		endpoints.WithActivity(c.emitter),
	}
	menuOpts := []menus.Option{
		menus.WithMaxDepth(c.Config.Menus.MaxDepth),
		menus.WithLogger(c.logger(logging.MenusModule)),
		menus.WithActivity(c.emitter),
	}
	typeOpts := []contenttypes.Option{
		contenttypes.WithRegistry(c.registry),
		contenttypes.WithLogger(c.logger(logging.ContentTypesModule)),
		contenttypes.WithActivity(c.emitter),
	}
	recordOpts := []records.Option{
		records.WithRegistry(c.registry),
		records.WithLogger(c.logger(logging.RecordsModule)),
		records.WithActivity(c.emitter),
	}
	userOpts := []users.Option{
		users.WithLogger(c.logger(logging.UsersModule)),
		users.WithActivity(c.emitter),
	}
	settingsOpts := []settings.Option{
		settings.WithLogger(c.logger(logging.SettingsModule)),
		settings.WithActivity(c.emitter),
	}
	if c.idGenerator != nil {
		endpointOpts = append(endpointOpts, endpoints.WithIDGenerator(c.idGenerator))
		menuOpts = append(menuOpts, menus.WithIDGenerator(c.idGenerator))
		typeOpts = append(typeOpts, contenttypes.WithIDGenerator(c.idGenerator))
		recordOpts = append(recordOpts, records.WithIDGenerator(c.idGenerator))
		userOpts = append(userOpts, users.WithIDGenerator(c.idGenerator))
	}
	if c.clock != nil {
		endpointOpts = append(endpointOpts, endpoints.WithClock(c.clock))
		menuOpts = append(menuOpts, menus.WithClock(c.clock))
		typeOpts = append(typeOpts, contenttypes.WithClock(c.clock))
		recordOpts = append(recordOpts, records.WithClock(c.clock))
		userOpts = append(userOpts, users.WithClock(c.clock))
		settingsOpts = append(settingsOpts, settings.WithClock(c.clock))
	}

	c.endpointSvc = endpoints.NewService(c.endpointRepo, endpointOpts...)
	c.menuSvc = menus.NewService(c.menuRepo, menuOpts...)

	cascadeOpts := []cascade.Option{
		cascade.WithRoutes(c.routes),
		cascade.WithLogger(c.logger(logging.CascadeModule)),
		cascade.WithActivity(c.emitter),
	}
	if c.bunDB != nil {
		cascadeOpts = append(cascadeOpts, cascade.WithTransaction(c.bunDB, c.invalidators...))
	}
	c.coordinator = cascade.New(c.endpointSvc, c.menuSvc, c.recordRepo, cascadeOpts...)

	typeOpts = append(typeOpts, contenttypes.WithHooks(c.coordinator))
	c.contentTypeSvc = contenttypes.NewService(c.contentTypeRepo, typeOpts...)

	notifier := c.notifier
	if notifier == nil {
		notifier = notify.Logger(c.logger(logging.NotifyModule))
	}
	recordOpts = append(recordOpts, records.WithNotifier(notifier))
	c.recordSvc = records.NewService(c.recordRepo, c.contentTypeSvc, recordOpts...)

	c.userSvc = users.NewService(c.userRepo, userOpts...)
	c.settingsSvc = settings.NewService(c.settingsRepo, settingsOpts...)

	c.importer = markdown.NewImporter(c.contentTypeSvc, c.recordSvc, c.registry, c.logger(logging.MarkdownModule))
}

func (c *Container) logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Start creates bun tables, seeds admin navigation when configured and
// starts the replication worker. It runs once.
func (c *Container) Start(ctx context.Context) error {
	var err error
	c.startOnce.Do(func() {
		if c.bunDB != nil {
			if err = storage.EnsureSchema(ctx, c.bunDB, Models()...); err != nil {
				return
			}
		}
		if c.Config.Menus.SeedAdminNavigation {
			if _, err = c.menuSvc.SeedAdminNavigation(ctx); err != nil {
				err = fmt.Errorf("di: seed admin navigation: %w", err)
				return
			}
		}
		if c.replicator != nil {
			c.replicator.Start(ctx)
		}
	})
	return err
}

// Close drains the replication queue. It runs once.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.replicator != nil {
			err = c.replicator.Close()
		}
	})
	return err
}

// Models lists the bun models of every collection.
func Models() []any {
	return []any{
		(*contenttypes.ContentType)(nil),
		(*records.Record)(nil),
		(*endpoints.Endpoint)(nil),
		(*menus.Entry)(nil),
		(*users.User)(nil),
		(*settings.Settings)(nil),
	}
}

// SyncRename propagates a content type rename to its endpoints and menu entry.
func (c *Container) SyncRename(ctx context.Context, before, after *contenttypes.ContentType) error {
	return c.coordinator.SyncRename(ctx, before, after)
}

// PublishSchemas registers one OpenAPI document per content type with the
// schema registry.
func (c *Container) PublishSchemas(ctx context.Context) error {
	types, err := c.contentTypeSvc.List(ctx)
	if err != nil {
		return err
	}
	eps, err := c.endpointSvc.List(ctx)
	if err != nil {
		return err
	}
	return endpoints.PublishSchemas(ctx, c.schemaRegistry, dynhttp.DefaultAPIVersion, eps, types, c.registry)
}

// CommandHandlers groups the go-command handlers of every module.
type CommandHandlers struct {
	ContentTypes *contenttypescmd.HandlerSet
	Records      *recordscmd.HandlerSet
	Menus        *menuscmd.HandlerSet
	Markdown     *markdowncmd.ImportDirectoryHandler
}

// RegisterCommands builds the command handlers and adds them to reg. A nil
// reg only builds them.
func (c *Container) RegisterCommands(reg commands.CommandRegistry, opts ...markdowncmd.HandlerOption) (*CommandHandlers, error) {
	var (
		out CommandHandlers
		err error
	)
	if out.ContentTypes, err = contenttypescmd.Register(reg, c.contentTypeSvc, c.coordinator, c.loggerProvider); err != nil {
		return nil, err
	}
	if out.Records, err = recordscmd.Register(reg, c.recordSvc, c.contentTypeSvc, c.registry, c.loggerProvider); err != nil {
		return nil, err
	}
	if out.Menus, err = menuscmd.Register(reg, c.menuSvc, c.loggerProvider); err != nil {
		return nil, err
	}
	gates := markdowncmd.FeatureGates{MarkdownEnabled: func() bool { return c.Config.Features.Markdown }}
	if out.Markdown, err = markdowncmd.Register(reg, c.importer, c.loggerProvider, gates, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// Handler mounts the admin and public APIs on a new ServeMux.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	resolver := c.roleResolver
	if resolver == nil {
		resolver = dynhttp.HeaderRoleResolver(RoleHeader)
	}
	logger := c.logger(logging.HTTPModule)

	admin := dynhttp.NewAdminAPI(
		dynhttp.WithBasePath(c.Config.HTTP.AdminBasePath),
		dynhttp.WithContentTypeService(c.contentTypeSvc),
		dynhttp.WithRecordService(c.recordSvc),
		dynhttp.WithMenuService(c.menuSvc),
		dynhttp.WithEndpointService(c.endpointSvc),
		dynhttp.WithUserService(c.userSvc),
		dynhttp.WithSettingsService(c.settingsSvc),
		dynhttp.WithRenamer(c.coordinator),
		dynhttp.WithFieldRegistry(c.registry),
		dynhttp.WithRoleResolver(resolver),
		dynhttp.WithLogger(logger),
	)
	if err := admin.Register(mux); err != nil {
		return nil, err
	}
	public := dynhttp.NewPublicAPI(c.endpointSvc, c.contentTypeSvc, c.recordSvc,
		dynhttp.WithPublicBasePath(c.Config.HTTP.PublicBasePath),
		dynhttp.WithPublicFieldRegistry(c.registry),
		dynhttp.WithPublicRoleResolver(resolver),
		dynhttp.WithPublicLogger(logger),
	)
	if err := public.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) FieldRegistry() *fields.Registry { return c.registry }

func (c *Container) MarkdownRenderer() *markdown.Renderer { return c.renderer }

func (c *Container) ContentTypeService() contenttypes.Service { return c.contentTypeSvc }

func (c *Container) RecordService() records.Service { return c.recordSvc }

func (c *Container) EndpointService() endpoints.Service { return c.endpointSvc }

func (c *Container) MenuService() menus.Service { return c.menuSvc }

func (c *Container) UserService() users.Service { return c.userSvc }

func (c *Container) SettingsService() settings.Service { return c.settingsSvc }

func (c *Container) Importer() *markdown.Importer { return c.importer }

func (c *Container) Coordinator() *cascade.Coordinator { return c.coordinator }

// Replicator is nil when replication is off.
func (c *Container) Replicator() *replication.Replicator { return c.replicator }

func (c *Container) BunDB() *bun.DB { return c.bunDB }

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
