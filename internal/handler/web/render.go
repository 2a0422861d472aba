// Package web 提供服务端渲染的用户管理页面 (gin + html/template)。
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// 页面模板名，c.HTML 使用这些名字
const (
	pageUserList    = "users/list"
	pageUserForm    = "users/form"
	pageUserDetails = "users/details"
	pageUserDelete  = "users/delete"
	pageLogList     = "logs/list"
	pageLogDetails  = "logs/details"
	pageError       = "error"
)

var pageFiles = map[string]string{
	pageUserList:    "templates/user_list.html",
	pageUserForm:    "templates/user_form.html",
	pageUserDetails: "templates/user_details.html",
	pageUserDelete:  "templates/user_delete.html",
	pageLogList:     "templates/log_list.html",
	pageLogDetails:  "templates/log_details.html",
	pageError:       "templates/error.html",
}

// Renderer 实现 gin 的 render.HTMLRender，每个页面和公共布局组合成独立的模板集
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer 解析所有内嵌模板，任何模板错误都会在启动时返回
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("web: parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Instance 实现 render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages[pageError]
		data = errorView{Page: Page{Title: "Error"}, Message: "Unknown page " + name}
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02/01/2006")
	},
	"timestamp": func(t time.Time) string {
		return t.Format("02/01/2006 15:04:05")
	},
	"longTimestamp": func(t time.Time) string {
		return t.Format("Monday, 02 January 2006 at 15:04:05")
	},
	"status": domain.StatusLabel,
}
