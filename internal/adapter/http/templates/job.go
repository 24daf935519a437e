package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/bnema/renderfarm/internal/domain"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#222}
dl{display:grid;grid-template-columns:max-content 1fr;gap:.25rem 1rem}
dt{font-weight:600}
code{background:#f2f2f2;padding:0 .25rem}
.status-queued{color:#666}.status-processing{color:#b26a00}.status-finished{color:#1a7f37}.status-error{color:#c62828}
pre{background:#f7f7f7;padding:.75rem;overflow:auto;max-height:24rem}
video{max-width:100%}`

// statusScript subscribes to the job's event stream and reloads the page
// once the job reaches a terminal state.
const statusScript = `(function(){
var el=document.getElementById("status");if(!el)return;
var es=new EventSource(el.dataset.events);
es.addEventListener("status",function(e){var ev=JSON.parse(e.data);
el.textContent=ev.status+(ev.message?" ("+ev.message+")":"");el.className="status-"+ev.status;
if(ev.status==="finished"||ev.status==="error"){es.close();location.reload();}});
})();`

// JobPage renders a small status page for one job.
func JobPage(job *domain.Job, queuePosition int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		id := strconv.FormatInt(job.ID, 10)

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>Job %s</title><style>%s</style></head><body>`, id, pageStyle)
		fmt.Fprintf(&b, `<h1>Job %s</h1><dl>`, id)

		row(&b, "Archive", templ.EscapeString(job.ArchiveID))
		row(&b, "Run", templ.EscapeString(job.RunID))
		row(&b, "Source", link(job.SourceURL))
		if job.ArchiveURL != "" {
			row(&b, "Archived copy", link(job.ArchiveURL))
		}
		fmt.Fprintf(&b, `<dt>Status</dt><dd><span id="status" class="status-%s" data-events="/jobs/%s/events">%s</span></dd>`,
			templ.EscapeString(string(job.Status)), id, templ.EscapeString(statusLabel(job, queuePosition)))
		row(&b, "Created", job.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		if job.ClaimedBy != "" {
			row(&b, "Worker", templ.EscapeString(job.ClaimedBy))
		}
		b.WriteString(`</dl>`)

		b.WriteString(`<h2>Steps</h2>`)
		if len(job.Steps) == 0 {
			b.WriteString(`<p>No steps, the source is uploaded as is.</p>`)
		} else {
			b.WriteString(`<ol>`)
			for _, s := range job.Steps {
				fmt.Fprintf(&b, `<li><code>%s</code></li>`, templ.EscapeString(s))
			}
			b.WriteString(`</ol>`)
		}

		if job.Status == domain.JobStatusFinished && job.FinalURL != "" {
			b.WriteString(`<h2>Render</h2>`)
			fmt.Fprintf(&b, `<video controls preload="metadata" src="%s"`, safeURL(job.FinalURL))
			if job.ThumbnailURL != "" {
				fmt.Fprintf(&b, ` poster="%s"`, safeURL(job.ThumbnailURL))
			}
			b.WriteString(`></video>`)
			fmt.Fprintf(&b, `<p>%s</p>`, link(job.FinalURL))
		}

		if job.Logs != "" {
			fmt.Fprintf(&b, `<h2>Log</h2><pre>%s</pre>`, templ.EscapeString(job.Logs))
		}

		if !job.Status.IsTerminal() {
			fmt.Fprintf(&b, `<script>%s</script>`, statusScript)
		}
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func statusLabel(job *domain.Job, queuePosition int) string {
	label := string(job.Status)
	switch {
	case job.Status == domain.JobStatusQueued && queuePosition > 0:
		label += fmt.Sprintf(" (position %d)", queuePosition)
	case job.StatusText != "" && job.StatusText != string(job.Status):
		label += " (" + job.StatusText + ")"
	}
	return label
}

func row(b *strings.Builder, label, valueHTML string) {
	fmt.Fprintf(b, `<dt>%s</dt><dd>%s</dd>`, label, valueHTML)
}

func safeURL(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

func link(u string) string {
	return fmt.Sprintf(`<a href="%s" rel="noreferrer">%s</a>`, safeURL(u), templ.EscapeString(u))
}
