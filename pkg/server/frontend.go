package server

const htmlPage = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Phishy Token Checker</title>
<link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;500;600;700&family=Space+Grotesk:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>
:root{--bg:#08090d;--sf:#0f1118;--sf2:#161923;--sf3:#1e2230;--bd:#252a3a;--bd2:#333a50;--tx:#c8cdd8;--tx2:#8891a5;--tx3:#5a6278;--ac:#3b82f6;--gn:#10b981;--rd:#ef4444;--or:#f59e0b;--pr:#a855f7;--go:#eab308}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:'JetBrains Mono',monospace;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1100px;margin:0 auto;padding:20px 24px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:16px 0;border-bottom:1px solid var(--bd);margin-bottom:24px}
.hdr h1{font-family:'Space Grotesk',sans-serif;font-size:22px;font-weight:700;background:linear-gradient(135deg,var(--ac),var(--pr));-webkit-background-clip:text;-webkit-text-fill-color:transparent}
.pn{background:var(--sf);border:1px solid var(--bd);border-radius:12px;margin-bottom:18px;overflow:hidden}
.pn-h{display:flex;justify-content:space-between;align-items:center;padding:13px 18px;border-bottom:1px solid var(--bd);background:var(--sf2)}
.pn-h h2{font-family:'Space Grotesk',sans-serif;font-size:13px;font-weight:600}
.pn-b{padding:16px 18px}
.fg{margin-bottom:14px}
.fg label{display:block;font-size:10px;color:var(--tx2);text-transform:uppercase;letter-spacing:.8px;margin-bottom:6px}
.fg input,.fg select{width:100%;padding:10px 12px;background:var(--sf2);border:1px solid var(--bd);border-radius:8px;color:var(--tx);font-family:'JetBrains Mono',monospace;font-size:12px;outline:0;transition:.2s}
.fg input:focus{border-color:var(--ac);box-shadow:0 0 0 3px rgba(59,130,246,.1)}
.fg input::placeholder{color:var(--tx3)}
.btn{font-family:'JetBrains Mono',monospace;font-size:11px;padding:10px 18px;border:none;border-radius:8px;cursor:pointer;font-weight:600;transition:.2s}
.btn-p{background:var(--ac);color:#fff}.btn-p:hover{background:#2563eb}.btn-p:disabled{opacity:.5;cursor:wait}
.vd{padding:14px 18px;border-radius:10px;margin-bottom:18px;border-left:3px solid;font-size:13px;font-weight:600}
.vd-bad{background:rgba(239,68,68,.08);border-color:var(--rd);color:#fca5a5}
.vd-ok{background:rgba(16,185,129,.08);border-color:var(--gn);color:#6ee7b7}
.vd-err{background:rgba(245,158,11,.08);border-color:var(--or);color:#fcd34d}
.sts{display:grid;grid-template-columns:repeat(auto-fit,minmax(130px,1fr));gap:12px;margin-bottom:18px}
.st{background:var(--sf);border:1px solid var(--bd);border-radius:10px;padding:15px 16px}
.st .v{font-size:24px;font-weight:700}.st .v.b{color:var(--ac)}.st .v.g{color:var(--gn)}.st .v.r{color:var(--rd)}
.st .l{font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;margin-top:5px}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;padding:10px 14px;border-bottom:1px solid var(--bd)}
td{padding:10px 14px;border-bottom:1px solid rgba(37,42,58,.4);font-size:12px}
tr:hover td{background:rgba(59,130,246,.02)}
.addr{color:var(--go);font-size:11px;letter-spacing:.3px}
.bg{display:inline-block;padding:2px 8px;border-radius:5px;font-size:9px;font-weight:600;letter-spacing:.4px}
.bg-sol{background:rgba(153,69,255,.12);color:#b07eff;border:1px solid rgba(153,69,255,.2)}
.bg-bsc{background:rgba(243,186,47,.12);color:#f3ba2f;border:1px solid rgba(243,186,47,.2)}
.emp{text-align:center;padding:40px;color:var(--tx3);font-size:12px}.emp .ic{font-size:28px;margin-bottom:10px}
.scy{max-height:420px;overflow-y:auto}.scy::-webkit-scrollbar{width:5px}.scy::-webkit-scrollbar-thumb{background:var(--bd);border-radius:3px}
</style></head><body>
<div id="root"></div>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react/18.2.0/umd/react.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react-dom/18.2.0/umd/react-dom.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/babel-standalone/7.23.9/babel.min.js"></script>
<script type="text/babel">
const{useState,useEffect,useCallback}=React;
const ab=a=>a?(a.slice(0,8)+'...'+a.slice(-6)):'-';
const TB=t=>t==='pumpfun'?<span className="bg bg-sol">PUMP.FUN</span>:<span className="bg bg-bsc">FOUR.MEME</span>;
const num=v=>{const n=parseFloat(v);return isNaN(n)?v:n.toLocaleString(undefined,{maximumFractionDigits:4})};

function App(){
  const[addr,sAddr]=useState(''),[curve,sCurve]=useState(''),[type,sType]=useState('auto');
  const[res,sRes]=useState(null),[err,sErr]=useState(''),[busy,sBusy]=useState(false);
  const[recent,sRecent]=useState([]);
  const loadRecent=useCallback(()=>{fetch('/api/recent-phishy').then(r=>r.json()).then(d=>sRecent(d.tokens||[])).catch(()=>{})},[]);
  useEffect(()=>{loadRecent();const i=setInterval(loadRecent,15000);return()=>clearInterval(i)},[loadRecent]);

  const check=()=>{
    sBusy(true);sErr('');sRes(null);
    const body={token_address:addr.trim()};
    if(curve.trim())body.bonding_curve=curve.trim();
    if(type!=='auto')body.token_type=type;
    fetch('/api/check',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(body)})
      .then(r=>r.json().then(d=>({ok:r.ok,d})))
      .then(({ok,d})=>{if(!ok){sErr(d.error||'request failed')}else{sRes(d);loadRecent()}})
      .catch(e=>sErr(String(e)))
      .finally(()=>sBusy(false));
  };

  const solana=type==='solana'||type==='pumpfun'||(type==='auto'&&addr&&!addr.startsWith('0x'));

  return<div className="app">
    <div className="hdr"><h1>🎣 Phishy Token Checker</h1></div>
    <div className="pn"><div className="pn-h"><h2>Analyze Token</h2></div><div className="pn-b">
      <div className="fg"><label>Token Address</label>
        <input value={addr} onChange={e=>sAddr(e.target.value)} placeholder="0x... (BSC) or base58 mint (Solana)"/></div>
      {solana&&<div className="fg"><label>Bonding Curve (optional, derived when empty)</label>
        <input value={curve} onChange={e=>sCurve(e.target.value)} placeholder="bonding curve address"/></div>}
      <div className="fg"><label>Platform</label>
        <select value={type} onChange={e=>sType(e.target.value)}>
          <option value="auto">auto-detect</option>
          <option value="bsc">Four.Meme (BSC)</option>
          <option value="solana">Pump.fun (Solana)</option>
        </select></div>
      <button className="btn btn-p" disabled={busy||!addr.trim()} onClick={check}>{busy?'Checking...':'Check Token'}</button>
    </div></div>

    {err&&<div className="vd vd-err">⚠️ {err}</div>}
    {res&&<div>
      {res.message?<div className="vd vd-ok">{res.message}</div>:
        res.phishy?<div className="vd vd-bad">🚨 PHISHY — {res.data.phishy_count} address(es) received this token before ever buying it</div>:
        <div className="vd vd-ok">✅ CLEAN — every receiving address bought first</div>}
      <div className="sts">
        <div className="st"><div className="v b">{res.data.total_addresses}</div><div className="l">Addresses</div></div>
        <div className="st"><div className="v r">{res.data.phishy_count}</div><div className="l">Phishy</div></div>
        <div className="st"><div className="v g">{res.data.normal_count}</div><div className="l">Normal</div></div>
      </div>
      {res.data.phishy_addresses&&res.data.phishy_addresses.length>0&&
      <div className="pn"><div className="pn-h"><h2>Phishy Addresses</h2>{TB(res.token_type)}</div>
        <div className="scy"><table><thead><tr><th>Address</th><th>First Transfer</th><th>First Buy</th><th>Transferred</th><th>Bought</th><th>Reason</th></tr></thead>
        <tbody>{res.data.phishy_addresses.map((p,i)=>
          <tr key={i}><td className="addr">{ab(p.address)}</td><td>{p.first_transfer_time||'-'}</td><td>{p.first_buy_time||'never'}</td>
          <td>{num(p.total_transferred)}</td><td>{num(p.total_bought)}</td><td>{p.reason}</td></tr>)}
        </tbody></table></div></div>}
      {res.data.top_holders&&res.data.top_holders.length>0&&
      <div className="pn"><div className="pn-h"><h2>Top Holders</h2></div>
        <table><thead><tr><th>Address</th><th>Balance</th><th>% Supply</th></tr></thead>
        <tbody>{res.data.top_holders.map((h,i)=>
          <tr key={i}><td className="addr">{ab(h.address)}</td><td>{num(h.balance)}</td><td>{h.supply_pct}%</td></tr>)}
        </tbody></table></div>}
    </div>}

    <div className="pn"><div className="pn-h"><h2>Recently Flagged Tokens</h2></div>
      {recent.length===0?<div className="emp"><div className="ic">🫥</div>no phishy tokens yet</div>:
      <table><thead><tr><th>Token</th><th>Platform</th><th>Phishy</th><th>When</th></tr></thead>
      <tbody>{recent.map((t,i)=>
        <tr key={i}><td className="addr">{ab(t.token_address)}</td><td>{TB(t.token_type)}</td>
        <td>{t.phishy_count}</td><td>{t.timestamp}</td></tr>)}
      </tbody></table>}
    </div>
  </div>;
}
ReactDOM.createRoot(document.getElementById('root')).render(<App/>);
</script></body></html>`
