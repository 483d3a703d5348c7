package router

// Minimal server-rendered pages. The real UI is a separate frontend; these
// exist so the session flow works against a bare backend.

const loginPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Agent Studio - Login</title>
  <style>
    body { font-family: system-ui, sans-serif; display: flex; justify-content: center; margin-top: 10rem; }
    form { display: flex; flex-direction: column; gap: 0.5rem; width: 18rem; }
    #error { color: #b00020; min-height: 1.2rem; font-size: 0.9rem; }
  </style>
</head>
<body>
  <form id="login">
    <h1>Agent Studio</h1>
    <input type="password" id="password" placeholder="Password" autofocus>
    <button type="submit">Sign in</button>
    <div id="error"></div>
  </form>
  <script>
    document.getElementById('login').addEventListener('submit', async (e) => {
      e.preventDefault();
      const res = await fetch('/api/auth/login', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ password: document.getElementById('password').value }),
      });
      if (res.ok) {
        const from = new URLSearchParams(location.search).get('from');
        location.href = from && from.startsWith('/') ? from : '/';
      } else {
        document.getElementById('error').textContent = 'Invalid password';
      }
    });
  </script>
</body>
</html>
`

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Agent Studio</title>
  <style>body { font-family: system-ui, sans-serif; margin: 4rem auto; max-width: 40rem; }</style>
</head>
<body>
  <h1>Agent Studio</h1>
  <p>The backend is running. The API lives under <code>/api</code>.</p>
</body>
</html>
`
