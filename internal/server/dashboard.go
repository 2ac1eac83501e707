package server

// DashboardHTML is the embedded single-page dashboard for Cadence.
// It streams clock events over WebSocket and polls /api/stats.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Cadence Dashboard</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    align-items: center;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected, .status-value.running { color: #3fb950; }
  .status-value.disconnected, .status-value.stopped { color: #f85149; }
  .controls { margin-left: auto; display: flex; gap: 8px; }
  .controls button {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 6px 14px; border-radius: 4px; cursor: pointer; font-size: 0.85em;
  }
  .controls button:hover { background: #30363d; }
  .stats {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px; margin-bottom: 20px;
  }
  .stat-card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 16px; text-align: center;
  }
  .stat-number { font-size: 2em; font-weight: 700; color: #58a6ff; }
  .stat-number.fps { color: #d2a8ff; }
  .stat-number.overrun { color: #f85149; }
  .stat-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .event-log {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    max-height: 500px; overflow-y: auto;
  }
  .event-header {
    padding: 12px 16px; border-bottom: 1px solid #30363d;
    font-weight: 600; color: #58a6ff; position: sticky; top: 0;
    background: #161b22;
  }
  .event-row {
    display: grid; grid-template-columns: 180px 120px 1fr;
    padding: 8px 16px; border-bottom: 1px solid #21262d; font-size: 0.85em;
  }
  .badge {
    display: inline-block; padding: 2px 8px; border-radius: 12px;
    font-size: 0.75em; font-weight: 600; background: #21262d;
  }
  .badge.start { color: #3fb950; }
  .badge.stop { color: #d29922; }
  .badge.overrun { color: #f85149; }
  .time-cell { color: #8b949e; }
</style>
</head>
<body>
<h1>Cadence Dashboard</h1>
<p class="subtitle">Fixed-timestep clock monitor</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">Clock</span>
    <span class="status-value stopped" id="clock-status">Stopped</span>
  </div>
  <div class="status-item">
    <span class="status-label">Last frame</span>
    <span class="status-value" id="last-frame">-</span>
  </div>
  <div class="controls">
    <button onclick="control('start')">Start</button>
    <button onclick="control('stop')">Stop</button>
  </div>
</div>

<div class="stats">
  <div class="stat-card"><div class="stat-number" id="stat-fixed">0</div><div class="stat-label">Fixed Steps</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-renders">0</div><div class="stat-label">Renders</div></div>
  <div class="stat-card"><div class="stat-number fps" id="stat-fps">0</div><div class="stat-label">FPS</div></div>
  <div class="stat-card"><div class="stat-number overrun" id="stat-overruns">0</div><div class="stat-label">Overruns</div></div>
</div>

<div class="event-log">
  <div class="event-header">Lifecycle</div>
  <div id="events"></div>
</div>

<script>
const eventsDiv = document.getElementById('events');
const MAX_EVENTS = 200;

function ms(ns) { return (ns / 1e6).toFixed(2) + ' ms'; }

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');
  ws.onopen = () => setStatus('conn-status', 'Connected', 'connected');
  ws.onclose = () => {
    setStatus('conn-status', 'Disconnected', 'disconnected');
    setTimeout(connect, 2000);
  };
  ws.onmessage = (e) => {
    const msg = JSON.parse(e.data);
    if (msg.type !== 'event') return;
    const ev = msg.event;
    if (ev.kind === 'render') {
      document.getElementById('last-frame').textContent = ms(ev.delta || 0);
      return;
    }
    if (ev.kind === 'fixed-step') return;
    addEvent(msg.time, ev);
  };
}

function setStatus(id, text, cls) {
  const el = document.getElementById(id);
  el.textContent = text;
  el.className = 'status-value ' + cls;
}

function addEvent(t, ev) {
  const row = document.createElement('div');
  row.className = 'event-row';
  const time = new Date(t).toLocaleTimeString('en-US', {hour12: false, fractionalSecondDigits: 3});
  let detail = '';
  if (ev.kind === 'stop') detail = 'reason: ' + (ev.reason || 'requested');
  if (ev.kind === 'overrun') detail = 'frame ' + ms(ev.delta) + ' exceeded ' + ms(ev.limit);
  row.innerHTML =
    '<span class="time-cell">' + time + '</span>' +
    '<span><span class="badge ' + ev.kind + '">' + ev.kind.toUpperCase() + '</span></span>' +
    '<span>' + detail + '</span>';
  eventsDiv.insertBefore(row, eventsDiv.firstChild);
  while (eventsDiv.children.length > MAX_EVENTS) {
    eventsDiv.removeChild(eventsDiv.lastChild);
  }
}

async function poll() {
  try {
    const res = await fetch('/api/stats');
    const body = await res.json();
    const s = body.stats;
    document.getElementById('stat-fixed').textContent = s.fixed_steps;
    document.getElementById('stat-renders').textContent = s.renders;
    document.getElementById('stat-fps').textContent = s.fps.toFixed(1);
    document.getElementById('stat-overruns').textContent = s.overruns;
    if (body.clock.running) setStatus('clock-status', 'Running', 'running');
    else setStatus('clock-status', 'Stopped', 'stopped');
  } catch (e) {}
}

async function control(action) {
  await fetch('/api/' + action, {method: 'POST'});
  poll();
}

connect();
poll();
setInterval(poll, 500);
</script>
</body>
</html>`
