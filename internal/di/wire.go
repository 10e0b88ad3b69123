//go:build wireinject
// +build wireinject

package di

import (
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"campusfeed/internal/config"
	"campusfeed/internal/dbmongo"
	"campusfeed/internal/dbmysql"
	"campusfeed/internal/dm"
	"campusfeed/internal/engage"
	"campusfeed/internal/feed"
	"campusfeed/internal/media"
	"campusfeed/internal/user"
)

// Application bundles everything main needs to serve requests.
type Application struct {
	Config       *config.Config
	Dispatcher   *engage.Dispatcher
	FeedHandler  *feed.FeedHandler
	UserHandler  *user.UserHandler
	DMHandler    *dm.DMHandler
	MediaHandler *media.MediaHandler
}

// InitializeApplication wires repositories, services and handlers, then
// subscribes the counter observer so engagement events recompute counters.
func InitializeApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	wire.Build(
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,
		dbmongo.NewMediaStorage,

		provideDispatcher,
		provideTokenTTL,
		provideMediaBaseURL,

		feed.NewFeedRepository,
		wire.Bind(new(feed.Posts), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Likes), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Comments), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Bookmarks), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Shares), new(*feed.FeedRepository)),
		wire.Bind(new(feed.MediaStore), new(*dbmongo.MediaStorage)),
		wire.Bind(new(engage.CounterStore), new(*feed.FeedRepository)),
		wire.Bind(new(engage.Subject), new(*engage.Dispatcher)),
		feed.NewFeedService,
		wire.Bind(new(feed.FeedUsecase), new(*feed.FeedService)),
		feed.NewFeedHandler,

		user.NewUserRepository,
		wire.Bind(new(user.Users), new(*user.UserRepository)),
		wire.Bind(new(user.Follows), new(*user.UserRepository)),
		wire.Bind(new(user.PostCounts), new(*feed.FeedRepository)),
		wire.Bind(new(user.MediaStore), new(*dbmongo.MediaStorage)),
		user.NewUserService,
		wire.Bind(new(user.UserUsecase), new(*user.UserService)),
		user.NewUserHandler,

		dm.NewDMRepository,
		wire.Bind(new(dm.Conversations), new(*dm.DMRepository)),
		wire.Bind(new(dm.Messages), new(*dm.DMRepository)),
		wire.Bind(new(dm.Users), new(*user.UserRepository)),
		wire.Bind(new(dm.Posts), new(*feed.FeedRepository)),
		wire.Bind(new(dm.MediaStore), new(*dbmongo.MediaStorage)),
		dm.NewDMService,
		wire.Bind(new(dm.DMUsecase), new(*dm.DMService)),
		dm.NewDMHandler,

		wire.Bind(new(media.Downloader), new(*dbmongo.MediaStorage)),
		media.NewMediaHandler,

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

func provideDispatcher(logger *zap.Logger, counters engage.CounterStore) *engage.Dispatcher {
	d := engage.NewDispatcher(logger)
	d.Subscribe(engage.NewCounterObserver(counters))
	return d
}

func provideTokenTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Auth.TokenTTLHrs) * time.Hour
}

func provideMediaBaseURL(cfg *config.Config) string {
	return cfg.Server.MediaBaseURL
}
