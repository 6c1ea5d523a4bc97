package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event types written to the render socket
const (
	EventConsole  = "console"
	EventTile     = "tile"
	EventProgress = "progress"
	EventError    = "error"
	EventComplete = "complete"
)

// Event is a single message on the render socket
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TileUpdate represents a single finished tile within a pass
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// Completion is the final message of a successful render
type Completion struct {
	Message   string `json:"message"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// ErrorMessage reports a failed or rejected render
type ErrorMessage struct {
	Error string `json:"error"`
}

// renderStream owns the events flowing to one websocket client.
// Only the writer goroutine touches the connection's write side.
type renderStream struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{} // closed when the writer exits
	cancel context.CancelFunc
}

// handleRender upgrades to a websocket and streams a progressive render
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &renderStream{
		conn:   conn,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go stream.writeEvents()
	go stream.readUntilClosed()

	defer func() {
		close(stream.events)
		<-stream.done
	}()

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		stream.send(EventError, ErrorMessage{Error: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := setupConsoleLogging()
	stopConsole := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		stream.streamConsoleMessages(consoleChan, stopConsole)
	}()

	err = s.render(ctx, stream, req, webLogger)

	close(stopConsole)
	wg.Wait()

	if err != nil {
		if ctx.Err() != nil {
			log.Printf("Render cancelled: client disconnected")
			return
		}
		stream.send(EventError, ErrorMessage{Error: err.Error()})
	}
}

// render builds the requested scene and forwards every pass and tile to the stream
func (s *Server) render(ctx context.Context, stream *renderStream, req *RenderRequest, logger core.Logger) error {
	cfg := req.Config()
	sceneObj, err := scene.Create(cfg.Scene, cfg.SceneOptions())
	if err != nil {
		return err
	}

	raytracer := renderer.NewProgressiveRaytracer(sceneObj, cfg.ProgressiveConfig(sceneObj.SamplingConfig.SamplesPerPixel), logger)

	startTime := time.Now()
	passChan, tileChan, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := stream.sendPass(passResult, req.Passes, sceneObj.GetPrimitiveCount(), startTime); err != nil {
				return err
			}

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			stream.sendTile(tileResult)

		case <-stream.done:
			return context.Canceled
		}
	}

	if err := <-errChan; err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	stream.send(EventComplete, Completion{Message: "Rendering completed", ElapsedMs: time.Since(startTime).Milliseconds()})
	return nil
}

func (rs *renderStream) sendPass(result renderer.PassResult, totalPasses, primitiveCount int, startTime time.Time) error {
	imageData, err := imageio.EncodePNGBase64(result.Image)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	rs.send(EventProgress, ProgressUpdate{
		PassNumber:  result.PassNumber,
		TotalPasses: totalPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    result.Stats.TotalPixels,
			TotalSamples:   result.Stats.TotalSamples,
			AverageSamples: result.Stats.AverageSamples,
			MaxSamples:     result.Stats.MaxSamples,
			MinSamples:     result.Stats.MinSamples,
			MaxSamplesUsed: result.Stats.MaxSamplesUsed,
			MeanLuminance:  result.Stats.MeanLuminance,
			PrimitiveCount: primitiveCount,
		},
		IsComplete: result.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	})
	return nil
}

func (rs *renderStream) sendTile(result renderer.TileCompletionResult) {
	tileData, err := imageio.EncodePNGBase64(result.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", result.TileX, result.TileY, err)
		return
	}

	rs.send(EventTile, TileUpdate{
		TileX:       result.TileX,
		TileY:       result.TileY,
		ImageData:   tileData,
		PassNumber:  result.PassNumber,
		TileNumber:  result.TileNumber,
		TotalTiles:  result.TotalTiles,
		TotalPasses: result.TotalPasses,
	})
}

// send queues an event; it drops the event once the writer has gone away
func (rs *renderStream) send(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case rs.events <- Event{Type: eventType, Data: data}:
	case <-rs.done:
	}
}

// writeEvents is the only goroutine that writes to the connection
func (rs *renderStream) writeEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		rs.cancel()
		close(rs.done)
	}()

	for {
		select {
		case event, ok := <-rs.events:
			_ = rs.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = rs.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := rs.conn.WriteJSON(event); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}

		case <-ticker.C:
			_ = rs.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := rs.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readUntilClosed drains client frames so pongs and close frames are
// processed, and cancels the render when the client goes away
func (rs *renderStream) readUntilClosed() {
	defer rs.cancel()

	rs.conn.SetReadLimit(512)
	_ = rs.conn.SetReadDeadline(time.Now().Add(pongWait))
	rs.conn.SetPongHandler(func(string) error {
		return rs.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := rs.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// setupConsoleLogging creates console channel and web logger for a render
func setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// streamConsoleMessages forwards log lines until stop is closed, then
// flushes whatever is still buffered
func (rs *renderStream) streamConsoleMessages(consoleChan <-chan ConsoleMessage, stop <-chan struct{}) {
	for {
		select {
		case msg := <-consoleChan:
			rs.send(EventConsole, msg)
		case <-stop:
			for {
				select {
				case msg := <-consoleChan:
					rs.send(EventConsole, msg)
				default:
					return
				}
			}
		}
	}
}
