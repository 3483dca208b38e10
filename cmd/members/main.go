package main

import (
	memberhandler "homeview/internal/members/handler"
	memberrepository "homeview/internal/members/repository"
	memberservice "homeview/internal/members/service"
	membervalidator "homeview/internal/members/validator"
	"homeview/internal/references"
	wishlisthandler "homeview/internal/wishlists/handler"
	wishlistrepository "homeview/internal/wishlists/repository"
	wishlistservice "homeview/internal/wishlists/service"
	wishlistvalidator "homeview/internal/wishlists/validator"
	"homeview/pkg/app"
	"homeview/pkg/config"
)

const ServiceName = "members"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()
	cfg.SetEvents()

	cfg.Log.Info("Starting Members service")
	memberService, wishlistService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		memberhandler.NewMemberHandler(memberService, cfg.Log),
		wishlisthandler.NewWishlistHandler(wishlistService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (memberservice.MemberService, wishlistservice.WishlistService) {
	memberService := memberservice.NewMemberService(
		memberrepository.New(cfg),
		membervalidator.NewMemberValidator(cfg.Log),
		cfg.Client.Events,
		cfg,
	)
	wishlistService := wishlistservice.NewWishlistService(
		wishlistrepository.New(cfg),
		references.New(cfg),
		wishlistvalidator.NewWishlistValidator(cfg.Log),
		cfg.Client.Events,
		cfg,
	)

	cfg.Log.Info("Members service initialized", "store", cfg.StoreDriver)
	return memberService, wishlistService
}
