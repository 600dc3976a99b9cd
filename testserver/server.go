// Package testserver provides a mock survey server for exercising the
// submission pipeline without a real form backend. It renders a
// multi-section form from a schema using the same accessibility roles
// the driver locates fields by, and serves a confirmation page after a
// successful submit.
package testserver

import (
	"fmt"
	"html/template"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"formsmith/internal/schema"
)

// Config tunes the server's failure injection.
type Config struct {
	// FailRate is the percentage [0,100] of submissions rejected with
	// a 500 response.
	FailRate int
	// Delay is applied to every submission before responding.
	Delay time.Duration
}

// Server serves a single mock survey form.
type Server struct {
	mux  *http.ServeMux
	form *schema.Form
	cfg  Config
	page *template.Template

	submissions atomic.Int64
	rejected    atomic.Int64
}

// NewServer creates a server for the given form. A nil form serves the
// built-in default survey.
func NewServer(form *schema.Form, cfg Config) *Server {
	if form == nil {
		form = schema.Default()
	}
	if cfg.FailRate < 0 {
		cfg.FailRate = 0
	}
	if cfg.FailRate > 100 {
		cfg.FailRate = 100
	}
	s := &Server{
		mux:  http.NewServeMux(),
		form: form,
		cfg:  cfg,
		page: template.Must(template.New("form").Parse(formPage)),
	}
	s.mux.HandleFunc("/", s.handleForm)
	s.mux.HandleFunc("/submit", s.handleSubmit)
	s.mux.HandleFunc("/stats", s.handleStats)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Submissions returns the number of accepted submissions.
func (s *Server) Submissions() int64 {
	return s.submissions.Load()
}

// Rejected returns the number of submissions failed by injection.
func (s *Server) Rejected() int64 {
	return s.rejected.Load()
}

// handleForm renders the survey page.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, s.form); err != nil {
		http.Error(w, "rendering form", http.StatusInternalServerError)
	}
}

// handleSubmit accepts a submission, applying the configured delay and
// failure rate.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.Delay > 0 {
		time.Sleep(s.cfg.Delay)
	}
	if s.cfg.FailRate > 0 && rand.Intn(100) < s.cfg.FailRate {
		s.rejected.Add(1)
		http.Error(w, "simulated submission failure", http.StatusInternalServerError)
		return
	}
	s.submissions.Add(1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"recorded"}`)
}

// handleStats reports submission counters as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"submissions":%d,"rejected":%d}`, s.submissions.Load(), s.rejected.Load())
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// formPage mimics the DOM structure of hosted survey forms: one
// listitem-role container per question, radio/checkbox roles with
// aria-label values, sections shown one at a time, and a confirmation
// page with a formResponse URL after submit.
const formPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
.section { display: none; }
.section.active { display: block; }
div[role='radio'], div[role='checkbox'] {
  display: inline-block; padding: 4px 10px; margin: 2px;
  border: 1px solid #999; border-radius: 4px; cursor: pointer;
}
div[aria-checked='true'] { background: #cde; }
div[role='button'] {
  display: inline-block; padding: 8px 20px; margin-top: 12px;
  border: 1px solid #555; border-radius: 4px; cursor: pointer;
}
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<form onsubmit="return false;">
{{range $i, $section := .Sections}}
<div class="section{{if eq $i 0}} active{{end}}" data-section="{{$section.Name}}">
  <h2>{{$section.Name}}</h2>
  {{range $section.Fields}}
  <div role="listitem">
    <span class="prompt">{{.Prompt}}</span>
    {{if eq .Kind "text"}}
    <input type="text" name="{{.Prompt}}">
    {{else if eq .Kind "choice"}}
    <div>
      {{range .Options}}
      <div role="radio" aria-label="{{.}}" aria-checked="false" tabindex="0">{{.}}</div>
      {{end}}
    </div>
    {{else if eq .Kind "checkbox"}}
    <div role="checkbox" aria-label="{{.Prompt}}" aria-checked="false" tabindex="0">{{.Prompt}}</div>
    {{end}}
  </div>
  {{end}}
  <div role="button" class="next"><span>Next</span></div>
  <div role="button" class="submit"><span>Submit</span></div>
</div>
{{end}}
</form>
<script>
(function() {
  var sections = Array.from(document.querySelectorAll('.section'));
  sections.forEach(function(section, i) {
    var next = section.querySelector('.next');
    var submit = section.querySelector('.submit');
    if (i === sections.length - 1) {
      next.remove();
    } else {
      submit.remove();
    }
  });
  document.addEventListener('click', function(e) {
    var el = e.target.closest("div[role='radio']");
    if (el) {
      el.parentElement.querySelectorAll("div[role='radio']").forEach(function(r) {
        r.setAttribute('aria-checked', 'false');
      });
      el.setAttribute('aria-checked', 'true');
      return;
    }
    el = e.target.closest("div[role='checkbox']");
    if (el) {
      var on = el.getAttribute('aria-checked') === 'true';
      el.setAttribute('aria-checked', on ? 'false' : 'true');
      return;
    }
    el = e.target.closest('div.next');
    if (el) {
      var current = document.querySelector('.section.active');
      var idx = sections.indexOf(current);
      current.classList.remove('active');
      sections[idx + 1].classList.add('active');
      window.scrollTo(0, 0);
      return;
    }
    el = e.target.closest('div.submit');
    if (el) {
      fetch('/submit', { method: 'POST' }).then(function(resp) {
        if (!resp.ok) {
          document.body.innerHTML = '<div>Submission failed, please retry.</div>';
          return;
        }
        history.replaceState(null, '', '/formResponse');
        document.body.innerHTML = '<div>Your response has been recorded</div>';
      });
    }
  });
})();
</script>
</body>
</html>`
