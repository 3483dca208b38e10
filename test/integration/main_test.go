//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	memberhandler "homeview/internal/members/handler"
	memberrepository "homeview/internal/members/repository"
	memberservice "homeview/internal/members/service"
	membervalidator "homeview/internal/members/validator"
	mongomigration "homeview/internal/migrations/mongo"
	propertyhandler "homeview/internal/properties/handler"
	propertyrepository "homeview/internal/properties/repository"
	propertyservice "homeview/internal/properties/service"
	propertyvalidator "homeview/internal/properties/validator"
	"homeview/internal/references"
	schedulehandler "homeview/internal/schedules/handler"
	schedulerepository "homeview/internal/schedules/repository"
	scheduleservice "homeview/internal/schedules/service"
	schedulevalidator "homeview/internal/schedules/validator"
	wishlisthandler "homeview/internal/wishlists/handler"
	wishlistrepository "homeview/internal/wishlists/repository"
	wishlistservice "homeview/internal/wishlists/service"
	wishlistvalidator "homeview/internal/wishlists/validator"
	"homeview/pkg/app"
	"homeview/pkg/client"
	"homeview/pkg/config"
	"homeview/test/common"
)

const ServiceName = "integration-tests"

var (
	schedules  *client.ScheduleClient
	properties *client.PropertyClient
	members    *client.MemberClient
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	mongo, err := common.StartMongo(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo: %v\n", err)
		return 1
	}
	defer func() {
		if err := mongo.Terminate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to terminate mongo: %v\n", err)
		}
	}()

	for key, value := range map[string]string{
		config.EnvStoreDriver:       config.StoreDriverMongo,
		config.EnvMongoURI:          mongo.URI,
		config.EnvMongoDatabaseName: "homeview_it",
		config.EnvEventsEnabled:     "false",
		config.EnvRateLimitRequests: "100000",
		config.EnvLogLevel:          "error",
	} {
		os.Setenv(key, value)
	}

	cfg := config.Load(ServiceName)
	cfg.SetStore()
	cfg.SetEvents()
	defer cfg.GracefulShutdown()

	if err := mongomigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}

	server := httptest.NewServer(newApplication(cfg).Handler())
	defer server.Close()

	schedules = client.NewScheduleClient(server.URL)
	properties = client.NewPropertyClient(server.URL)
	members = client.NewMemberClient(server.URL)

	if err := schedules.WaitForReady(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	return m.Run()
}

// newApplication mounts every service on one server.
func newApplication(cfg *config.Config) *app.Application {
	refs := references.New(cfg)

	scheduleService := scheduleservice.NewScheduleService(
		schedulerepository.New(cfg), refs, schedulevalidator.NewScheduleValidator(cfg.Log), cfg.Client.Events, cfg,
	)
	propertyService := propertyservice.NewPropertyService(
		propertyrepository.New(cfg), refs, propertyvalidator.NewPropertyValidator(cfg.Log), cfg.Client.Events, cfg,
	)
	memberService := memberservice.NewMemberService(
		memberrepository.New(cfg), membervalidator.NewMemberValidator(cfg.Log), cfg.Client.Events, cfg,
	)
	wishlistService := wishlistservice.NewWishlistService(
		wishlistrepository.New(cfg), refs, wishlistvalidator.NewWishlistValidator(cfg.Log), cfg.Client.Events, cfg,
	)

	a := app.NewApplication(cfg)
	a.SetApp(
		schedulehandler.NewScheduleHandler(scheduleService, cfg.Log),
		propertyhandler.NewPropertyHandler(propertyService, cfg.Log),
		memberhandler.NewMemberHandler(memberService, cfg.Log),
		wishlisthandler.NewWishlistHandler(wishlistService, cfg.Log),
	)
	return a
}
