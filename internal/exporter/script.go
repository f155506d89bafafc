package exporter

import (
	"io"
	"path/filepath"
	"text/template"

	"cacases/internal/config"
	"cacases/internal/frame"
)

// scriptTemplate loads every frame, estimates R with an uncertain serial
// interval, and plots each series.
var scriptTemplate = template.Must(template.New("process.R").Parse(`library(EpiEstim)
library(ggplot2)
library(yaml)
library(zoo)

si_config <- make_config(list(mean_si = 2.6, std_mean_si = 1,
  min_mean_si = 1, max_mean_si = 4.2,
  std_si = 1.5, std_std_si = 0.5,
  min_std_si = 0.5, max_std_si = 2.5,
  n1 = 100, n2 = 100))

c_col <- c({{.FrameFormat}})
{{range .Entities}}{{$v := .Variable}}
print("{{$v}}")
{{$v}} <- read.table("{{.DataFile}}",colClasses = c_col)
{{$v}}_uncertain_si <- estimate_R({{$v}},method = "uncertain_si",config = si_config)
write_yaml({{$v}}_uncertain_si, "{{$.Dir}}/{{$v}}_R.yml")
svg('{{$.Dir}}/{{$v}}_uncertain_si.svg')
plot({{$v}}_uncertain_si)
dev.off()
{{$v}}_I_Z <- zoo({{$v}}$I, {{$v}}$dates)
{{$v}}_I_m <- rollmean({{$v}}_I_Z, 7,fill = list(NA, NA, NA, NULL, NA ,NA, NA))
{{$v}}$I_m = coredata({{$v}}_I_m)
{{$v}}_g_I <- ggplot(data={{$v}}, aes(dates, I))+geom_col()+geom_line(aes(dates,I_m),color="red")+scale_x_date(date_minor_breaks = "1 week")
ggsave('{{$.Dir}}/{{$v}}_I.svg', {{$v}}_g_I)
{{$v}}_g_C <- ggplot(data={{$v}}, aes(dates, C))+geom_line()+scale_x_date(date_minor_breaks = "1 week")
ggsave('{{$.Dir}}/{{$v}}_C.svg', {{$v}}_g_C)
{{$v}}_g_D <- ggplot(data={{$v}}, aes(dates, D))+geom_line()+scale_x_date(date_minor_breaks = "1 week")
ggsave('{{$.Dir}}/{{$v}}_D.svg', {{$v}}_g_D)
{{$v}}_g_E <- ggplot(data={{$v}}, aes(dates, E))+geom_col()+scale_x_date(date_minor_breaks = "1 week")
ggsave('{{$.Dir}}/{{$v}}_E.svg', {{$v}}_g_E)
write_yaml({{$v}}, "{{$.Dir}}/{{$v}}_Data.yml")
{{end}}`))

// ScriptEntity is one entity block of the R script.
type ScriptEntity struct {
	Variable string
	DataFile string
}

// ScriptData feeds the R script template.
type ScriptData struct {
	FrameFormat string
	Dir         string
	Entities    []ScriptEntity
}

// NewScriptData collects the template input for frames written to paths.
func NewScriptData(paths config.OutputPaths, frames *frame.Collection) ScriptData {
	data := ScriptData{
		FrameFormat: frame.New("", frames.Schema()).FrameFormat(),
		Dir:         filepath.ToSlash(paths.Dir),
	}
	for _, name := range frames.Names() {
		v := frame.Variable(name)
		data.Entities = append(data.Entities, ScriptEntity{
			Variable: v,
			DataFile: filepath.ToSlash(paths.DataFile(v)),
		})
	}
	return data
}

// RenderScript writes the R script for data to w.
func RenderScript(w io.Writer, data ScriptData) error {
	return scriptTemplate.Execute(w, data)
}
