package main

import (
	"flag"
	"image"
	"log"

	"github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/fonts"
	"github.com/chenmins/mmo-demo/logging"
	"github.com/chenmins/mmo-demo/network"
	"github.com/chenmins/mmo-demo/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame(newSession scenes.SessionFactory, logger *zap.SugaredLogger) (*Game, error) {
	if err := fonts.LoadDefaults(); err != nil {
		return nil, err
	}

	g := &Game{
		bounds: image.Rectangle{},
	}
	scene, err := scenes.NewNetworkedScene(g, newSession, logger)
	if err != nil {
		return nil, err
	}
	g.scene = scene
	return g, nil
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.Window.Width, config.Window.Height)
	return config.Window.Width, config.Window.Height
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	server := flag.String("server", "", "gate address, overrides MMO_SERVER_ADDR")
	userID := flag.Int("user", -1, "login user id, overrides MMO_USER_ID and the saved profile")
	logLevel := flag.String("log-level", "", "log level, overrides MMO_LOG_LEVEL")
	flag.Parse()

	cfg := config.Load(*envFile)
	if *server != "" {
		cfg.ServerAddr = *server
	}
	if *userID >= 0 {
		cfg.UserID, cfg.HasUserID = *userID, true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger, err := logging.New(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel, Console: cfg.LogConsole})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync(logger)

	// The profile keeps the login id stable across restarts.
	var profile *config.Profile
	store, err := config.OpenStore("mmo-demo")
	if err != nil {
		logger.Warnw("profile storage unavailable", "error", err)
	} else if profile, err = config.LoadProfile(store); err != nil {
		logger.Warnw("could not load profile", "error", err)
	}
	cfg.UserID = config.ResolveUserID(cfg.UserID, cfg.HasUserID, profile, nil)
	if store != nil {
		if err := config.SaveProfile(store, config.Profile{UserID: cfg.UserID, LastServer: cfg.ServerAddr}); err != nil {
			logger.Warnw("could not save profile", "error", err)
		}
	}
	logger.Infow("starting client", "server", cfg.ServerAddr, "user_id", cfg.UserID)

	newSession := func() (*network.Session, error) {
		transport := network.NewWsTransport(network.WsOptions{DialTimeout: cfg.DialTimeout})
		session := network.NewSession(transport, network.Config{UserID: cfg.UserID}, logger)
		if err := session.Connect(cfg.ServerAddr); err != nil {
			return nil, err
		}
		return session, nil
	}

	game, err := NewGame(newSession, logger)
	if err != nil {
		logger.Errorw("failed to start", "error", err)
		logging.Sync(logger)
		log.Fatal(err)
	}

	ebiten.SetWindowSize(config.Window.Width, config.Window.Height)
	ebiten.SetWindowTitle(config.Window.Title)
	if err := ebiten.RunGame(game); err != nil {
		logger.Errorw("game loop ended", "error", err)
		logging.Sync(logger)
		log.Fatal(err)
	}
}
