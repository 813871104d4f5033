package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"bidanalyser/tender"
)

// tableRow is one rendered line of the results table. Header rows carry
// the section title in the label column.
type tableRow struct {
	Header bool
	Label  string
	Value  string
}

type uiState struct {
	cfg     tender.Config
	client  *tender.Client
	session *tender.Session
	svc     *tender.Service
	log     *zap.Logger

	w           fyne.Window
	apiKeyEntry *widget.Entry
	fileLabel   *widget.Label
	errorLabel  *widget.Label
	summary     *widget.Label
	question    *widget.Entry
	langSelect  *widget.Select
	resTbl      *widget.Table
	tableRows   []tableRow
	chatBox     *fyne.Container
	content     *fyne.Container
	homeView    fyne.CanvasObject
	resultView  fyne.CanvasObject
	statusBind  binding.String
	logBind     binding.String
	logLines    []string
	logMu       sync.Mutex

	analyzeBtn   *widget.Button
	translateBtn *widget.Button
	exportBtn    *widget.Button
	askBtn       *widget.Button
}

func buildUI(a fyne.App, cfg tender.Config, client *tender.Client, session *tender.Session, log *zap.Logger) *uiState {
	u := &uiState{cfg: cfg, client: client, session: session, log: log}
	u.w = a.NewWindow("Bid Analyser - Document Analysis & Q&A")

	u.svc = tender.NewService(cfg, client, session, dialogSaver{win: u.w}, tender.DirSaver{Dir: cfg.ReportsDir}, log)

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Ready")
	u.logBind = binding.NewString()

	u.apiKeyEntry = widget.NewPasswordEntry()
	u.apiKeyEntry.SetPlaceHolder("Leave empty to use server key")
	if cfg.APIKey != "" {
		u.apiKeyEntry.SetText(cfg.APIKey)
	}
	u.apiKeyEntry.OnChanged = func(key string) {
		u.session.SetCredential(key)
		u.client.SetAPIKey(key)
	}

	u.fileLabel = widget.NewLabel("No file selected")
	u.fileLabel.Wrapping = fyne.TextWrapWord
	u.errorLabel = widget.NewLabel("")
	u.errorLabel.Wrapping = fyne.TextWrapWord
	u.errorLabel.Importance = widget.DangerImportance
	u.errorLabel.Hide()

	u.summary = widget.NewLabel("")
	u.summary.Wrapping = fyne.TextWrapWord

	u.question = widget.NewEntry()
	u.question.SetPlaceHolder("e.g. What is the penalty clause?")
	u.question.OnSubmitted = func(string) { u.onAsk() }

	u.langSelect = widget.NewSelect(translateLanguages, nil)
	u.langSelect.SetSelected(cfg.TargetLang)

	u.analyzeBtn = widget.NewButtonWithIcon("Start Analysis", theme.ConfirmIcon(), func() { u.onAnalyze() })
	u.translateBtn = widget.NewButtonWithIcon("Translate", theme.ViewRefreshIcon(), func() { u.onTranslate() })
	u.exportBtn = widget.NewButtonWithIcon("Download Report", theme.DocumentSaveIcon(), func() { u.onExport() })
	u.askBtn = widget.NewButtonWithIcon("Ask", theme.SearchIcon(), func() { u.onAsk() })
	openBtn := widget.NewButtonWithIcon("Choose File", theme.FolderOpenIcon(), func() { u.onChooseFile() })
	resetBtn := widget.NewButtonWithIcon("Clear Analysis", theme.ContentClearIcon(), func() { u.onReset() })

	u.resTbl = widget.NewTable(
		func() (int, int) { return len(u.tableRows), 2 },
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Wrapping = fyne.TextWrapWord
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			lbl.TextStyle = fyne.TextStyle{}
			if id.Row >= len(u.tableRows) {
				lbl.SetText("")
				return
			}
			row := u.tableRows[id.Row]
			if row.Header {
				if id.Col == 0 {
					lbl.TextStyle = fyne.TextStyle{Bold: true}
					lbl.SetText(row.Label)
				} else {
					lbl.SetText("")
				}
				return
			}
			if id.Col == 0 {
				lbl.SetText(row.Label)
			} else {
				lbl.SetText(row.Value)
			}
		},
	)
	u.resTbl.SetColumnWidth(0, 220)
	u.resTbl.SetColumnWidth(1, 420)

	u.chatBox = container.NewVBox()

	logEntry := widget.NewEntryWithData(u.logBind)
	logEntry.MultiLine = true
	logEntry.Wrapping = fyne.TextWrapWord
	logEntry.SetPlaceHolder("Activity log")
	logEntry.Disable()

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Controls", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel("API Key (optional)"),
		u.apiKeyEntry,
		widget.NewLabel("Document"),
		openBtn,
		u.fileLabel,
		u.analyzeBtn,
		resetBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Translate Summary", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.langSelect,
		u.translateBtn,
		u.exportBtn,
		widget.NewSeparator(),
		widget.NewLabelWithData(u.statusBind),
		container.NewMax(logEntry),
	)

	u.homeView = u.makeHomeView()
	u.resultView = u.makeResultView()
	u.content = container.NewMax(u.homeView)

	split := container.NewHSplit(container.NewVScroll(sidebar), u.content)
	split.Offset = 0.28
	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1180, 760))

	session.SetOnChange(func() {
		fyne.Do(func() { u.refresh() })
	})
	u.refresh()
	return u
}

func (u *uiState) makeHomeView() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Upload Your Bid Document", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle("Choose a PDF or TXT file and start the analysis.\nSupported formats: PDF, TXT", fyne.TextAlignCenter, fyne.TextStyle{})
	features := widget.NewLabel("Key information extraction: tender reference, contract value, EMD,\ndeadlines and eligibility. Ask follow-up questions once the analysis is done.")
	features.Wrapping = fyne.TextWrapWord
	return container.NewVBox(title, u.errorLabel, hint, widget.NewSeparator(), features)
}

func (u *uiState) makeResultView() fyne.CanvasObject {
	summaryTitle := widget.NewLabelWithStyle("Executive Summary", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	chatTitle := widget.NewLabelWithStyle("Ask Questions About the Document", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	askRow := container.NewBorder(nil, nil, nil, u.askBtn, u.question)
	top := container.NewVBox(summaryTitle, u.summary, widget.NewSeparator())
	bottom := container.NewVBox(widget.NewSeparator(), chatTitle, askRow, container.NewVScroll(u.chatBox))
	return container.NewBorder(top, bottom, nil, nil, u.resTbl)
}

// refresh repaints every widget from a session snapshot. It runs on the
// UI thread only.
func (u *uiState) refresh() {
	if path := u.session.FilePath(); path != "" {
		u.fileLabel.SetText("Selected: " + filepath.Base(path))
	} else {
		u.fileLabel.SetText("No file selected")
	}

	if msg := u.session.Err(); msg != "" {
		u.errorLabel.SetText(msg)
		u.errorLabel.Show()
	} else {
		u.errorLabel.Hide()
	}

	loading := u.session.Loading()
	if loading {
		u.analyzeBtn.Disable()
		_ = u.statusBind.Set("Analyzing Document... this may take up to 30 seconds")
	} else {
		u.analyzeBtn.Enable()
		_ = u.statusBind.Set("Ready")
	}

	result := u.session.Result()
	if u.session.View() == tender.ViewResult && result != nil {
		u.summary.SetText(result.Field(tender.FieldExecutiveSummary))
		u.tableRows = flattenSections(tender.Normalize(result))
		u.resTbl.Refresh()
		u.refreshChat()
		u.content.Objects = []fyne.CanvasObject{u.resultView}
	} else {
		u.content.Objects = []fyne.CanvasObject{u.homeView}
	}
	u.content.Refresh()
}

func (u *uiState) refreshChat() {
	entries := u.session.Transcript()
	objects := make([]fyne.CanvasObject, 0, len(entries))
	for _, e := range entries {
		lbl := widget.NewLabel(formatChatEntry(e))
		lbl.Wrapping = fyne.TextWrapWord
		if e.Pending {
			lbl.TextStyle = fyne.TextStyle{Italic: true}
		}
		objects = append(objects, lbl)
	}
	u.chatBox.Objects = objects
	u.chatBox.Refresh()
}

func formatChatEntry(e tender.ChatEntry) string {
	prefix := "A: "
	if e.Kind == tender.EntryQuestion {
		prefix = "Q: "
	}
	if e.Pending {
		return prefix + "..."
	}
	return prefix + e.Content
}

func flattenSections(sections []tender.Section) []tableRow {
	var rows []tableRow
	for _, sec := range sections {
		if len(sec.Rows) == 0 {
			continue
		}
		rows = append(rows, tableRow{Header: true, Label: strings.ToUpper(sec.Title)})
		for _, r := range sec.Rows {
			rows = append(rows, tableRow{Label: r.Label, Value: r.Value})
		}
	}
	return rows
}

func (u *uiState) appendLog(msg string) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > 200 {
		u.logLines = u.logLines[len(u.logLines)-200:]
	}
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()
	_ = u.logBind.Set(text)
}

func (u *uiState) onChooseFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		path := rc.URI().Path()
		u.session.SelectFile(path)
		u.appendLog("File selected: " + filepath.Base(path))
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".txt"}))
	fd.Show()
}

func (u *uiState) onAnalyze() {
	u.appendLog("Analysis started")
	start := time.Now()
	go func() {
		err := u.svc.Analyze(context.Background())
		switch {
		case err == nil:
			u.appendLog(fmt.Sprintf("Analysis finished (%.1fs)", time.Since(start).Seconds()))
		case errors.Is(err, tender.ErrNoFile):
			fyne.Do(func() {
				dialog.ShowInformation("Information", "Please select a file first.", u.w)
			})
		case errors.Is(err, tender.ErrBusy):
			u.appendLog("Analysis already running")
		default:
			// Bound to the session error, shown inline on the home view.
			u.appendLog("Analysis failed: " + u.session.Err())
		}
	}()
}

func (u *uiState) onTranslate() {
	lang := u.langSelect.Selected
	if lang == "" {
		lang = u.cfg.TargetLang
	}
	u.appendLog("Translating to " + lang)
	go func() {
		err := u.svc.Translate(context.Background(), lang)
		switch {
		case err == nil:
			u.appendLog("Translation finished")
		case errors.Is(err, tender.ErrNothingToTranslate):
			fyne.Do(func() {
				dialog.ShowInformation("Information", "No analysis data to translate.", u.w)
			})
		case errors.Is(err, tender.ErrBusy):
			u.appendLog("Translation already running")
		default:
			u.appendLog("Translation failed: " + err.Error())
			fyne.Do(func() {
				dialog.ShowError(err, u.w)
			})
		}
	}()
}

func (u *uiState) onExport() {
	u.appendLog("Report export started")
	go func() {
		err := u.svc.Export(context.Background())
		switch {
		case err == nil:
			u.appendLog("Report export finished")
		case errors.Is(err, tender.ErrNoResult):
			fyne.Do(func() {
				dialog.ShowInformation("Information", "No analysis data found.", u.w)
			})
		case errors.Is(err, tender.ErrBusy):
			u.appendLog("Export already running")
		default:
			u.appendLog("Report export failed: " + err.Error())
			fyne.Do(func() {
				dialog.ShowError(err, u.w)
			})
		}
	}()
}

func (u *uiState) onAsk() {
	question := u.question.Text
	u.question.SetText("")
	go func() {
		// Failures are absorbed into the transcript; only an overlapping
		// invocation is reported.
		if err := u.svc.Ask(context.Background(), question); errors.Is(err, tender.ErrBusy) {
			u.appendLog("A question is already in flight")
		}
	}()
}

func (u *uiState) onReset() {
	u.session.Reset()
	u.appendLog("Session cleared")
}
