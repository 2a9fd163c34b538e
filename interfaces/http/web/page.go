package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"lineage/application/queries"
	querybus "lineage/application/queries/bus"
	"lineage/domain/core/valueobjects"
	"lineage/domain/services"
	"lineage/pkg/common"
	pkgerrors "lineage/pkg/errors"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler serves the HTML lineage chart with its inspector overlay
type PageHandler struct {
	queryBus    *querybus.QueryBus
	placeholder string
	tmpl        *template.Template
	logger      *zap.Logger
}

// pageData is the template model of one chart page
type pageData struct {
	Chart       *queries.GetChartResult
	Detail      *queries.GetNodeDetailResult
	Notice      string
	Error       string
	Placeholder string
	Page        int
	ShowAll     bool
}

// treeView carries page state into the recursive node template
type treeView struct {
	Tree *services.TreeNode
	Page *pageData
}

// NewPageHandler parses the embedded templates
func NewPageHandler(queryBus *querybus.QueryBus, placeholder string, logger *zap.Logger) (*PageHandler, error) {
	tmpl, err := template.New("chart.html").Funcs(template.FuncMap{
		"tree": func(tree *services.TreeNode, page *pageData) treeView {
			return treeView{Tree: tree, Page: page}
		},
		"pageURL":   pageURL,
		"selectURL": selectURL,
		"add1":      func(n int) int { return n + 1 },
		"sub1":      func(n int) int { return n - 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		queryBus:    queryBus,
		placeholder: placeholder,
		tmpl:        tmpl,
		logger:      logger,
	}, nil
}

// ServeHTTP handles GET /lineage
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	data := &pageData{
		Placeholder: h.placeholder,
		Page:        params.Page,
		ShowAll:     params.ShowAll,
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetChartQuery{Page: params.Page, ShowAll: params.ShowAll})
	if err != nil {
		h.logger.Warn("Failed to load lineage chart page", zap.Error(err))
		data.Error = errorMessage(err)
		h.render(w, statusOf(err), data)
		return
	}
	data.Chart = result.(*queries.GetChartResult)
	data.Page = data.Chart.Pagination.Page

	if selected := r.URL.Query().Get("selected"); selected != "" {
		h.inspect(r, selected, data)
	}

	h.render(w, http.StatusOK, data)
}

func (h *PageHandler) inspect(r *http.Request, selected string, data *pageData) {
	id, err := valueobjects.NewNodeIDFromString(selected)
	if err != nil {
		data.Notice = "Invalid selection: " + err.Error()
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeDetailQuery{NodeID: id})
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			data.Notice = "Person " + id.String() + " was not found."
			return
		}
		h.logger.Warn("Failed to load node detail", zap.String("nodeID", id.String()), zap.Error(err))
		data.Notice = errorMessage(err)
		return
	}
	data.Detail = result.(*queries.GetNodeDetailResult)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, data *pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "chart.html", data); err != nil {
		h.logger.Error("Failed to render chart page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageURL(page int, showAll bool) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if showAll {
		values.Set("show_all", "true")
	}
	return "?" + values.Encode()
}

func selectURL(id valueobjects.NodeID, page int, showAll bool) string {
	return pageURL(page, showAll) + "&selected=" + url.QueryEscape(id.String())
}

func errorMessage(err error) string {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}

func statusOf(err error) int {
	if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
