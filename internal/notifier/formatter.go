package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"WaveletDenoise/internal/model"
)

// FormatSweepReport formats a finished sweep into a Telegram message.
func FormatSweepReport(s *model.SweepSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📉 <b>Wavelet denoise</b> | %s | %s\n\n", html.EscapeString(s.Symbol), s.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Points: %d\n", s.Points))
	b.WriteString(fmt.Sprintf("Duration: %s\n\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond)))

	b.WriteString("<b>Results (std denoised / original):</b>\n")
	for _, r := range s.Results {
		ratio := 0.0
		if r.OriginalStd > 0 {
			ratio = r.DenoisedStd / r.OriginalStd
		}
		b.WriteString(fmt.Sprintf("  %-5s %-5v level %d  thr %.2f  ratio %.3f  rmse %.3f\n",
			html.EscapeString(r.Wavelet), r.Scale, r.Level, r.Threshold, ratio, r.RMSE))
	}
	b.WriteString(fmt.Sprintf("\nArtifacts written: %d", len(s.Artifacts)))
	return b.String()
}

// FormatFailure formats an aborted sweep. Error text may carry raw response
// bodies, so it is escaped for HTML parse mode.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>Wavelet denoise failed</b> | %s\n\n%s",
		html.EscapeString(symbol), html.EscapeString(err.Error()))
}
