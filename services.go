package main

import (
	"net/http"

	"github.com/Yulian302/lfusys-services-notifier/handlers"
	"github.com/Yulian302/lfusys-services-notifier/notify"
	"github.com/Yulian302/lfusys-services-notifier/services"
	"github.com/Yulian302/lfusys-services-notifier/store"
)

type Services struct {
	Relay services.RelayService

	Handler *handlers.LambdaHandler
}

func BuildServices(app *App) *Services {
	credStore := store.NewSecretsManagerCredentialStoreImpl(app.AwsConfig, app.Logger)
	linkSigner := store.NewS3LinkSignerImpl(app.AwsConfig, app.Logger)

	notifierCfg := app.Config.NotifierConfig
	notifier := notify.NewWebhookNotifierImpl(newWebhookClient(), notifierCfg.WebhookURL, app.Logger)

	relaySvc := services.NewRelayServiceImpl(
		credStore,
		linkSigner,
		notifier,
		notifierCfg.SecretID,
		notifierCfg.LinkTTL(),
		app.Logger,
	)

	return &Services{
		Relay: relaySvc,

		Handler: handlers.NewLambdaHandler(relaySvc, app.Logger),
	}
}

// newWebhookClient does not keep connections alive between invocations.
func newWebhookClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}
