package scenes

import (
	"sync"

	"github.com/chenmins/mmo-demo/archetypes"
	"github.com/chenmins/mmo-demo/network"
	"github.com/chenmins/mmo-demo/systems"
	"github.com/chenmins/mmo-demo/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

type SceneChanger interface {
	ChangeScene(scene interface{})
}

// SessionFactory builds and connects a fresh session.
type SessionFactory func() (*network.Session, error)

// NetworkedScene hosts one session: it pumps transport events, drives
// prediction from the keyboard and draws the synced entities.
type NetworkedScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	newSession   SessionFactory
	session      *network.Session
	baseLogger   *zap.SugaredLogger
	logger       *zap.SugaredLogger
	once         sync.Once
}

func NewNetworkedScene(sc SceneChanger, newSession SessionFactory, logger *zap.SugaredLogger) (*NetworkedScene, error) {
	session, err := newSession()
	if err != nil {
		return nil, err
	}
	return &NetworkedScene{
		sceneChanger: sc,
		newSession:   newSession,
		session:      session,
		baseLogger:   logger,
		logger:       logger.Named("scene"),
	}, nil
}

func (ns *NetworkedScene) Update() {
	ns.once.Do(ns.configure)

	ns.session.Poll()

	if ns.session.State().Terminal() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ns.reconnect()
		return
	}

	ns.ecsWorld.Update()
}

func (ns *NetworkedScene) Draw(screen *ebiten.Image) {
	if ns.ecsWorld == nil {
		return
	}
	ns.ecsWorld.Draw(screen)
}

// Close ends the hosted session.
func (ns *NetworkedScene) Close() {
	_ = ns.session.Close()
}

func (ns *NetworkedScene) configure() {
	ns.ecsWorld = ecs.NewECS(donburi.NewWorld())

	factory.CreateCamera(ns.ecsWorld)
	factory.CreateNetStatus(ns.ecsWorld)

	ns.ecsWorld.AddSystem(systems.NewNetworkInputSystem(ns.session))
	ns.ecsWorld.AddSystem(systems.NewNetCameraSystem(ns.session))
	ns.ecsWorld.AddSystem(systems.NewNetStatusSystem(ns.session))
	ns.ecsWorld.AddRenderer(archetypes.LayerWorld, systems.DrawWorld)
	ns.ecsWorld.AddRenderer(archetypes.LayerWorld, systems.NewDrawNetworkedEntities(ns.session))
	ns.ecsWorld.AddRenderer(archetypes.LayerHUD, systems.NewDrawMinimap(ns.session))
	ns.ecsWorld.AddRenderer(archetypes.LayerHUD, systems.DrawNetworkHUD)
}

// reconnect replaces this scene with one hosting a brand-new session; a
// terminal session is never reused.
func (ns *NetworkedScene) reconnect() {
	ns.logger.Infow("reconnecting", "previous_session", ns.session.ID(), "state", ns.session.State())
	_ = ns.session.Close()
	next, err := NewNetworkedScene(ns.sceneChanger, ns.newSession, ns.baseLogger)
	if err != nil {
		ns.logger.Errorw("reconnect failed", "error", err)
		return
	}
	ns.sceneChanger.ChangeScene(next)
}
