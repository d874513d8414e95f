package monitor

// dashboardHTML is the single-page dashboard served at "/". It carries one
// %s slot for the listen address shown under the title. Literal percent
// signs are doubled because the page goes through fmt.Sprintf.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ant-tsp dashboard</title>
<style>
  body { background: #121212; color: #e0e0e0; font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; padding: 20px; }
  h1 { font-size: 20px; margin: 0 0 4px 0; }
  .addr { color: #757575; font-size: 12px; margin-bottom: 16px; }
  .controls { background: #1e1e1e; border: 1px solid #333; border-radius: 6px; padding: 12px 16px; margin-bottom: 16px; }
  .controls label { font-size: 12px; color: #9e9e9e; margin-right: 4px; }
  .controls input { width: 64px; background: #2a2a2a; color: #e0e0e0; border: 1px solid #444; border-radius: 4px; padding: 4px 6px; margin-right: 12px; }
  button { background: #2e7d32; color: #fff; border: none; border-radius: 4px; padding: 6px 14px; margin: 8px 8px 0 0; cursor: pointer; }
  button.stop { background: #c62828; }
  button.sweep { background: #1565c0; }
  #status { font-size: 13px; color: #9e9e9e; margin-top: 8px; white-space: pre-line; }
  .charts { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
  .charts iframe { width: 100%%; height: 740px; border: 1px solid #333; border-radius: 6px; background: #1e1e1e; }
  .links { font-size: 12px; margin-top: 16px; }
  .links a { color: #64b5f6; margin-right: 12px; }
</style>
</head>
<body>
<h1>ant-tsp</h1>
<div class="addr">listening on %s</div>

<div class="controls">
  <label>n</label><input id="n" type="number" value="30">
  <label>m</label><input id="m" type="number" placeholder="n">
  <label>cycles</label><input id="cycles" type="number" value="50">
  <label>alpha</label><input id="alpha" type="number" step="0.1" value="1.0">
  <label>beta</label><input id="beta" type="number" step="0.1" value="5.0">
  <label>p</label><input id="p" type="number" step="0.05" value="0.5">
  <label>Q</label><input id="q" type="number" step="1" value="100">
  <label>seed</label><input id="seed" type="number" value="42">
  <br>
  <button onclick="startRun()">Start run</button>
  <button class="stop" onclick="post('/api/run/stop')">Stop run</button>
  <button class="sweep" onclick="startSweep('quick')">Quick sweep</button>
  <button class="sweep" onclick="startSweep('default')">Full sweep</button>
  <button class="stop" onclick="post('/api/sweep/stop')">Stop sweep</button>
  <div id="status">idle</div>
</div>

<div class="charts">
  <iframe id="tour" src="/charts/tour"></iframe>
  <iframe id="convergence" src="/charts/convergence"></iframe>
  <iframe id="pheromone" src="/charts/pheromone"></iframe>
  <iframe id="sweep" src="/charts/sweep"></iframe>
</div>

<div class="links">
  <a href="/api/results">results (JSON)</a>
  <a href="/api/results/csv">results (CSV)</a>
  <a href="/api/config">config</a>
  <a href="/plots/convergence.png">convergence (PNG)</a>
  <a href="/plots/tour.png">tour (PNG)</a>
</div>

<script>
function num(id) {
  const v = document.getElementById(id).value;
  return v === "" ? null : Number(v);
}

function setStatus(text) {
  document.getElementById("status").textContent = text;
}

async function post(url, body) {
  const resp = await fetch(url, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: body ? JSON.stringify(body) : null,
  });
  if (!resp.ok) {
    const err = await resp.json().catch(() => ({}));
    setStatus("error: " + (err.error || resp.status));
  }
}

function startRun() {
  const body = {n: num("n"), cycles: num("cycles")};
  const m = num("m");
  if (m) body.m = m;
  for (const k of ["alpha", "beta", "p", "q", "seed"]) {
    const v = num(k);
    if (v !== null) body[k] = v;
  }
  post("/api/run/start", body);
}

function startSweep(suite) {
  post("/api/sweep/start", {suite: suite});
}

function reloadCharts() {
  for (const id of ["tour", "convergence", "pheromone", "sweep"]) {
    const f = document.getElementById(id);
    f.src = f.src;
  }
}

async function poll() {
  try {
    const run = await (await fetch("/api/run/state")).json();
    const sweep = await (await fetch("/api/sweep/state")).json();
    let text = "run: " + run.status;
    if (run.status === "running" || run.status === "complete") {
      text += " cycle " + run.completed_cycles + "/" + run.total_cycles +
        " best " + (run.best_len_global || 0).toFixed(2);
    }
    if (run.error) text += " (" + run.error + ")";
    text += "\nsweep: " + sweep.status;
    if (sweep.status === "running" || sweep.status === "complete") {
      text += " " + sweep.completed_runs + "/" + sweep.total_runs + " runs";
    }
    if (sweep.error) text += " (" + sweep.error + ")";
    setStatus(text);

    if (run.status === "running" || sweep.status === "running") {
      reloadCharts();
    }
  } catch (e) {
    setStatus("poll failed: " + e);
  }
}

setInterval(poll, 2000);
poll();
</script>
</body>
</html>
`
