package help

const ColdstartYAML = `# chartbuddy Quick Start

commands:
  analyze_file: |
    chartbuddy analyze --file dashboard.html --x 240 --y 180

  analyze_url: |
    chartbuddy analyze --url "https://example.com/report" --x 400 --y 300

  custom_grab_point: |
    chartbuddy analyze --file dashboard.html --from-x 1200 --from-y 720 --x 240 --y 180

  interactive: |
    chartbuddy tui --file dashboard.html --log-file chartbuddy.log

  background_server: |
    chartbuddy serve --addr 127.0.0.1:8787
    chartbuddy analyze --file dashboard.html --x 240 --y 180 --server http://127.0.0.1:8787

  last_result: |
    chartbuddy recall
    chartbuddy recall --format yaml

  history: |
    chartbuddy history --limit 10
    chartbuddy history 4 --format json

widget:
  - "Starts 100px in from the bottom-right corner of the viewport"
  - "Grab it, drag it over a chart, release to analyze"
  - "The element under the release point is outlined for 2s"
  - "SVG charts: text labels, title/desc metadata, scatter points and series are read"
  - "Canvas charts: a visible tooltip next to the canvas is read"
  - "At most 15 labels and 10 extracted lines are sent"

moods:
  idle: "nothing happening"
  dragging: "widget held"
  analyzing: "waiting for the model"
  happy: "panel open"

config_file: |
  # chartbuddy.yaml (every key optional)
  viewport: {width: 1280, height: 800}
  ai: {base_url: "http://127.0.0.1:11434", model: "qwen2.5:7b", timeout: 60s, fallback_on_error: false}
  cache: {dir: ".chartbuddy-cache", ttl: 1h}
  storage: {driver: sqlite, path: ""}
  server: {addr: "127.0.0.1:8787"}
  highlight: {duration: 2s}

tui_keys:
  esc: "close the analysis panel"
  r: "show the last analysis again"
  q: "quit"

error_behavior:
  - "Releasing over empty space: nothing is sent, nothing changes"
  - "Background unreachable: status 'Extension context invalidated. Please refresh the page.'"
  - "Model errors: 'Analysis failed: <reason>', the previous panel stays as it was"
  - "Exit codes: 0=success, 1=usage error, 2=analysis failed"
`
