package server

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/adhan/internal/export"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// PrayerView is the JSON form of a prayer.
type PrayerView struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	Performed bool   `json:"performed"`
}

// DayView is the JSON form of a day.
type DayView struct {
	Date    string       `json:"date"`
	Prayers []PrayerView `json:"prayers"`
}

// NextView is the JSON form of the upcoming prayer.
type NextView struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Seconds   int64  `json:"seconds"`
}

// NewDayView converts a day, formatting times with layout.
func NewDayView(day prayer.Day, layout string) DayView {
	v := DayView{Date: day.Date.String(), Prayers: make([]PrayerView, 0, len(prayer.Kinds()))}
	for _, p := range day.Prayers() {
		v.Prayers = append(v.Prayers, PrayerView{
			Name:      p.Kind.String(),
			Time:      prayer.FormatClock(p.Time, layout),
			Performed: p.Performed,
		})
	}
	return v
}

// NewMonthView converts every day of m.
func NewMonthView(m prayer.Month, layout string) []DayView {
	out := make([]DayView, 0, m.Len())
	for day := range m.All() {
		out = append(out, NewDayView(day, layout))
	}
	return out
}

// NewNextView converts an upcoming prayer relative to now.
func NewNextView(u prayer.Upcoming, now civil.DateTime, layout string) NextView {
	d := prayer.TimeRemaining(u, now)
	return NextView{
		Name:      u.Prayer.Kind.String(),
		Date:      u.Date.String(),
		Time:      prayer.FormatClock(u.Prayer.Time, layout),
		Remaining: prayer.FormatRemaining(d),
		Seconds:   int64(d / time.Second),
	}
}

func (s *Server) month(res http.ResponseWriter, req *http.Request) (prayer.Month, civil.DateTime, bool) {
	logger := zerolog.Ctx(req.Context())
	now := civil.DateTimeOf(s.now())

	m, err := s.load(now)
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusServiceUnavailable).Msg("no cached timetable")
		http.Error(res, "no cached timetable; run adhan first", http.StatusServiceUnavailable)
		return prayer.Month{}, now, false
	}
	return m, now, true
}

func (s *Server) getToday(res http.ResponseWriter, req *http.Request) {
	m, now, ok := s.month(res, req)
	if !ok {
		return
	}
	day, found := m.Today(now)
	if !found {
		http.Error(res, "today is not in the cached month", http.StatusNotFound)
		return
	}
	s.sendJSON(res, req, NewDayView(day, s.timeLayout))
}

func (s *Server) getNext(res http.ResponseWriter, req *http.Request) {
	m, now, ok := s.month(res, req)
	if !ok {
		return
	}
	u, found := prayer.NextPrayer(m, now)
	if !found {
		http.Error(res, "no upcoming prayer in the cached month", http.StatusNotFound)
		return
	}
	s.sendJSON(res, req, NewNextView(u, now, s.timeLayout))
}

func (s *Server) getMonth(res http.ResponseWriter, req *http.Request) {
	m, _, ok := s.month(res, req)
	if !ok {
		return
	}
	s.sendJSON(res, req, NewMonthView(m, s.timeLayout))
}

func (s *Server) getDay(res http.ResponseWriter, req *http.Request) {
	logger := zerolog.Ctx(req.Context())

	date, err := civil.ParseDate(chi.URLParam(req, "date"))
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid date")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	m, _, ok := s.month(res, req)
	if !ok {
		return
	}
	day, found := m.SelectByDate(date)
	if !found {
		http.Error(res, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	s.sendJSON(res, req, NewDayView(day, s.timeLayout))
}

func (s *Server) getTimetable(res http.ResponseWriter, req *http.Request) {
	m, now, ok := s.month(res, req)
	if !ok {
		return
	}
	header := now.Date
	if first, found := firstDay(m); found {
		header = first
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.Render(res, m, header); err != nil {
		zerolog.Ctx(req.Context()).Error().Err(err).Caller().Msg("failed to render timetable")
	}
}

func (s *Server) sendJSON(res http.ResponseWriter, req *http.Request, body any) {
	logger := zerolog.Ctx(req.Context())

	data, err := json.Marshal(body)
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to encode response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Debug().Int("status_code", http.StatusOK).Msg("served")
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(data)
}

func firstDay(m prayer.Month) (civil.Date, bool) {
	for day := range m.All() {
		return day.Date, true
	}
	return civil.Date{}, false
}
