package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/filipsPL/aprs-is-wx/internal/aprs"
	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

type stubSource struct {
	obs wx.Observation
	err error
}

func (s stubSource) Latest(context.Context) (wx.Observation, error) {
	return s.obs, s.err
}

// stubSender records packet bodies and fails the sends it is told to.
type stubSender struct {
	bodies []string
	fail   map[int]error
}

func (s *stubSender) Send(_ context.Context, body string) error {
	i := len(s.bodies)
	s.bodies = append(s.bodies, body)
	return s.fail[i]
}

func testStation() aprs.Station {
	return aprs.Station{
		Callsign:  "N0CALL-13",
		Latitude:  53.232023,
		Longitude: 20.0713454,
		Comment:   "WX",
	}
}

func observationWithTemperature() wx.Observation {
	return wx.Observation{
		Temperature: &wx.Temperature{Value: 2.8, Unit: wx.Celsius},
	}
}

func TestBeaconOnce_SendsWeatherThenStatus(t *testing.T) {
	sender := &stubSender{}
	src := stubSource{obs: observationWithTemperature()}

	if err := beaconOnce(context.Background(), testStation(), src, sender); err != nil {
		t.Fatalf("beaconOnce() error = %v, want nil", err)
	}

	if len(sender.bodies) != 2 {
		t.Fatalf("sent %d packets, want 2 (weather + status)", len(sender.bodies))
	}
	if !strings.HasPrefix(sender.bodies[0], "@") {
		t.Errorf("first packet = %q, want weather report starting with @", sender.bodies[0])
	}
	if !strings.Contains(sender.bodies[0], "t037") {
		t.Errorf("weather packet = %q, want encoded temperature t037", sender.bodies[0])
	}
	if !strings.HasPrefix(sender.bodies[1], ">Uptime: ") {
		t.Errorf("second packet = %q, want status starting with >Uptime: ", sender.bodies[1])
	}
}

func TestBeaconOnce_StatusStillSentAfterWeatherFailure(t *testing.T) {
	wxErr := errors.New("send failed after 3 attempts")
	sender := &stubSender{fail: map[int]error{0: wxErr}}
	src := stubSource{obs: observationWithTemperature()}

	err := beaconOnce(context.Background(), testStation(), src, sender)
	if err == nil {
		t.Fatal("beaconOnce() error = nil, want the weather failure reported")
	}
	if !errors.Is(err, wxErr) {
		t.Errorf("error = %v, want it to wrap the weather send failure", err)
	}

	if len(sender.bodies) != 2 {
		t.Fatalf("sent %d packets, want the status attempted despite the weather failure", len(sender.bodies))
	}
	if !strings.HasPrefix(sender.bodies[1], ">") {
		t.Errorf("second packet = %q, want status packet", sender.bodies[1])
	}
}

func TestBeaconOnce_EncodingErrorAbortsBeforeNetwork(t *testing.T) {
	sender := &stubSender{}
	src := stubSource{obs: wx.Observation{
		Temperature: &wx.Temperature{Value: 300, Unit: "K"},
	}}

	err := beaconOnce(context.Background(), testStation(), src, sender)
	if err == nil {
		t.Fatal("beaconOnce() error = nil, want conversion error")
	}
	if !strings.Contains(err.Error(), "encode weather packet") {
		t.Errorf("error = %v, want encoding stage failure", err)
	}
	if len(sender.bodies) != 0 {
		t.Errorf("sent %d packets, want none after an encoding error", len(sender.bodies))
	}
}

func TestBeaconOnce_SourceErrorAbortsCycle(t *testing.T) {
	sender := &stubSender{}
	src := stubSource{err: errors.New("no such file")}

	err := beaconOnce(context.Background(), testStation(), src, sender)
	if err == nil {
		t.Fatal("beaconOnce() error = nil, want observation load error")
	}
	if len(sender.bodies) != 0 {
		t.Errorf("sent %d packets, want none without an observation", len(sender.bodies))
	}
}

func TestUptimeString(t *testing.T) {
	got := uptimeString()
	if got == "" {
		t.Fatal("uptimeString() = empty, want a duration string")
	}
}
