package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/state"
)

const (
	feedBuffer     = 32
	feedWriteWait  = 10 * time.Second
	feedPingPeriod = 30 * time.Second
)

// feed streams every VerdictEvent to a websocket client until it goes away.
func (a *API) feed(c *gin.Context) {
	if !a.state.Get(state.Feed) {
		abort(c, http.StatusServiceUnavailable, "Verdict feed disabled")
		return
	}

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.Errorw("web: feed: upgrade", "ERROR", err)
		return
	}
	defer conn.Close()

	sub := pubsub.NewSubscriber(feedBuffer)
	a.broker.Subscribe(VerdictTopic, sub)
	defer func() {
		if err := a.broker.UnSubscribe(VerdictTopic, sub); err != nil {
			a.logger.Errorw("web: feed: unsubscribe", "ERROR", err)
		}
		if n := sub.Dropped(); n > 0 {
			a.logger.Warnw("web: feed: slow client", "dropped", n)
		}
	}()

	a.logger.Infow("web: feed: client connected", "remote", c.ClientIP())
	defer a.logger.Infow("web: feed: client disconnected", "remote", c.ClientIP())

	// The read side only watches for the close frame.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingPeriod)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-sub.GetChannel():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(data); err != nil {
				a.logger.Debugw("web: feed: write", "ERROR", err)
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				return
			}

		case <-gone:
			return
		}
	}
}
