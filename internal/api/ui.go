package api

import (
	"html/template"
	"net/http"

	"github.com/Roelanb/studyplan/internal/options"
)

var pageTpl = template.Must(template.New("page").Parse(`
<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Study Plan Creator</title>
<style>
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Ubuntu, Cantarell, Noto Sans, Arial, sans-serif; margin: 0; background: #0b0f14; color: #e6edf3; }
header, footer { padding: 12px 16px; background: #111827; border-bottom: 1px solid #1f2937; }
footer { border-top: 1px solid #1f2937; border-bottom: none; color: #9ca3af; }
.container { padding: 16px; max-width: 960px; margin: 0 auto; }
h1, h2, h3 { margin: 0 0 12px 0; }
.card { background: #111827; border: 1px solid #1f2937; border-radius: 8px; padding: 12px; margin-bottom: 16px; }
input[type="text"], textarea, select { width: 100%; background: #0b1220; border: 1px solid #1f2937; color: #e6edf3; border-radius: 6px; padding: 8px; box-sizing: border-box; }
label { display: block; margin-bottom: 12px; }
button { background: #2563eb; color: white; border: 0; padding: 8px 12px; border-radius: 6px; cursor: pointer; }
button:disabled { background: #374151; cursor: wait; }
button.secondary { background: #374151; }
.grid { display: grid; grid-template-columns: 1fr; gap: 16px; }
@media (min-width: 900px) { .grid.two { grid-template-columns: 1fr 1fr; } }
.hidden { display: none !important; }
.flex { display: flex; }
.error { background: #7f1d1d; color: #fee2e2; border-radius: 6px; padding: 8px 12px; justify-content: space-between; align-items: center; }
#spinner { margin-left: 8px; color: #93c5fd; }
#studyPlanResponse pre, #studyPlanResponse code { background: #0b1220; border: 1px solid #1f2937; border-radius: 6px; padding: 2px 4px; }
</style>
</head>
<body>
<header>
  <div class="container"><h1>Study Plan Creator</h1></div>
</header>
<main class="container">
  <div class="card">
    <form id="studyPlanForm" onsubmit="return false">
      <label>What do you want to learn?<br><input type="text" name="goal" id="goal" placeholder="e.g. Learn Go concurrency"></label>
      <div class="grid two">
        {{range .Dropdowns}}
        <label>{{.Title}}<br>
          <select name="{{.Name}}" id="{{.TargetID}}">
            {{range .Options}}<option value="{{.Value}}">{{.Label}}</option>{{end}}
          </select>
        </label>
        {{end}}
      </div>
      <label><input type="checkbox" name="is_public"> Share this plan publicly</label>
      <button type="button" id="studyPlanSubmitBtn">Create plan</button>
      <span id="spinner" class="hidden">Creating your plan...</span>
    </form>
  </div>
  <div id="studyPlanErrorMessageContainer" class="error hidden">
    <span id="studyPlanErrorMessage"></span>
    <button type="button" class="secondary" id="closeStudyPlanErrorBtn">Close</button>
  </div>
  <div id="studyPlanResponseContainer" class="card hidden">
    <div id="studyPlanResponse"></div>
  </div>
</main>
<footer>
  <div class="container">Study Plan Creator v{{.Version}}</div>
</footer>
<script>
(function () {
  var viewPath = '/api/views/{{.ViewID}}';
  var presentation = '{{.Presentation}}';
  var btn = document.getElementById('studyPlanSubmitBtn');
  var spinner = document.getElementById('spinner');

  function setBusy(busy) {
    btn.disabled = busy;
    spinner.classList.toggle('hidden', !busy);
  }

  function showError(msg) {
    if (!msg) return;
    if (presentation === 'alert') { alert(msg); return; }
    var box = document.getElementById('studyPlanErrorMessageContainer');
    document.getElementById('studyPlanErrorMessage').textContent = msg;
    box.classList.remove('hidden');
    box.classList.add('flex');
  }

  function hideError() {
    var box = document.getElementById('studyPlanErrorMessageContainer');
    box.classList.remove('flex');
    box.classList.add('hidden');
  }

  function apply(state) {
    if (!state.kind && state.responseVisible && state.html) {
      var target = document.getElementById('studyPlanResponse');
      target.innerHTML = state.html;
      var container = document.getElementById('studyPlanResponseContainer');
      container.classList.remove('hidden');
      container.scrollIntoView({ behavior: 'smooth' });
    }
    if (state.errorVisible) { showError(state.error); } else { hideError(); }
    btn.disabled = !state.triggerEnabled;
    spinner.classList.toggle('hidden', !state.loading);
  }

  btn.addEventListener('click', async function () {
    if (btn.disabled) return;
    setBusy(true);
    try {
      var res = await fetch(viewPath + '/submit', { method: 'POST', body: new FormData(document.getElementById('studyPlanForm')) });
      var state = await res.json();
      if (!res.ok && state.errorVisible === undefined) {
        showError(state.error || 'Something went wrong');
      } else {
        apply(state);
      }
    } catch (e) {
      console.log(e);
      showError('Something went wrong');
    } finally {
      setBusy(false);
    }
  });

  document.getElementById('closeStudyPlanErrorBtn').addEventListener('click', function () {
    hideError();
    fetch(viewPath + '/dismiss', { method: 'POST' }).catch(function (e) { console.log(e); });
  });
})();
</script>
</body>
</html>
`))

// pageElements are the dropdown ids present in pageTpl.
var pageElements = map[string]bool{
	options.DomainProjectType.TargetID():         true,
	options.DomainReferencePreference.TargetID(): true,
	options.DomainTimeframe.TargetID():           true,
	options.DomainTimeConstraint.TargetID():      true,
}

var dropdownTitles = map[options.Domain]string{
	options.DomainProjectType:         "Project type",
	options.DomainReferencePreference: "Reference preference",
	options.DomainTimeframe:           "Timeframe",
	options.DomainTimeConstraint:      "Daily time",
}

type dropdown struct {
	Name     string
	TargetID string
	Title    string
	Options  []options.Descriptor
}

type pageData struct {
	ViewID       string
	Presentation string
	Version      string
	Dropdowns    []dropdown
}

// mountUI registers the server-rendered study plan page. Every GET mounts a
// fresh view with its own submission controller.
func (s *Server) mountUI() {
	page := func(w http.ResponseWriter, r *http.Request) {
		v := s.views.mount(s.ctrl.NewSubmitter, s.ctrl.Presentation())
		populated := options.Populate(func(id string) bool { return pageElements[id] })

		data := pageData{
			ViewID:       v.id,
			Presentation: v.presentation,
			Version:      s.ctrl.Version(),
		}
		for _, d := range options.Domains {
			opts, ok := populated[d]
			if !ok {
				continue
			}
			data.Dropdowns = append(data.Dropdowns, dropdown{
				Name:     string(d),
				TargetID: d.TargetID(),
				Title:    dropdownTitles[d],
				Options:  opts,
			})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTpl.Execute(w, data); err != nil {
			s.log.Errorw("render page", "view", v.id, "error", err)
		}
	}
	s.mux.HandleFunc("GET /{$}", page)
	s.mux.HandleFunc("GET /ui", page)
}
